package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ormdemo/internal/config"
	"ormdemo/internal/database"
	"ormdemo/internal/handlers"
	"ormdemo/internal/middlewares"
	"ormdemo/internal/repositories"
	"ormdemo/internal/routes"
	"ormdemo/internal/seed"
	"ormdemo/internal/services"
)

// NewRouter wires repositories, the demo service and handlers onto a gin engine.
func NewRouter(cfg *config.Config, handle *database.Handle, seeder *seed.Seeder, log *zap.Logger) *gin.Engine {
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Dependency injection
	cityRepo := repositories.NewCityRepository(handle.DB)
	customerRepo := repositories.NewCustomerRepository(handle.DB)
	orderRepo := repositories.NewOrderRepository(handle.DB)
	demoService := services.NewDemoService(handle.DB, seeder, cityRepo, customerRepo, orderRepo)
	demoHandler := handlers.NewDemoHandler(demoService, log)
	healthHandler := handlers.NewHealthHandler(handle)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestID)
	router.Use(middlewares.ZapLogger(log.Named("http")))
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins())))

	routes.RegisterRoutes(router, demoHandler, healthHandler)
	return router
}

func NewServer(cfg *config.Config, handle *database.Handle, seeder *seed.Seeder, log *zap.Logger) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(cfg, handle, seeder, log),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", middlewares.RequestIDHeader},
		ExposeHeaders: []string{middlewares.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}
