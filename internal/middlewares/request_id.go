package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "requestId"
)

// RequestID reuses an incoming X-Request-ID or generates one, stores it in
// the context and echoes it back in the response.
func RequestID(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	c.Set(RequestIDKey, id)
	c.Header(RequestIDHeader, id)

	c.Next()
}
