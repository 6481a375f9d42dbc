package routes

import (
	"github.com/gin-gonic/gin"

	"ormdemo/internal/handlers"
)

type DemoRoutes struct {
	handler *handlers.DemoHandler
}

func NewDemoRoutes(handler *handlers.DemoHandler) *DemoRoutes {
	return &DemoRoutes{handler: handler}
}

func (r *DemoRoutes) RegisterRoutes(router *gin.RouterGroup) {
	cities := router.Group("/cities")
	{
		cities.GET("", r.handler.ListCities)
		cities.GET("/:id/customers", r.handler.ListCityCustomers)
	}

	customers := router.Group("/customers")
	{
		customers.GET("", r.handler.ListCustomers)
		customers.GET("/:id", r.handler.GetCustomer)
		customers.GET("/:id/orders", r.handler.ListCustomerOrders)
	}

	router.GET("/orders", r.handler.ListOrders)
	router.GET("/stats", r.handler.GetStats)
	router.POST("/seed", r.handler.Reseed)
}
