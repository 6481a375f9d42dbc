package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by database.Handle.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbOk := h.db.Ping(ctx) == nil
	status := http.StatusOK
	if !dbOk {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"ok":        dbOk,
		"database":  dbOk,
		"timestamp": time.Now().Unix(),
	})
}
