package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ormdemo/internal/handlers"
)

func RegisterRoutes(router *gin.Engine, demoHandler *handlers.DemoHandler, healthHandler *handlers.HealthHandler) {
	api := router.Group("/api/v1")

	demoRoutes := NewDemoRoutes(demoHandler)
	demoRoutes.RegisterRoutes(api)

	router.GET("/health", healthHandler.Health)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
