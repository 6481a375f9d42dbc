package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ormdemo/internal/responses"
	"ormdemo/internal/services"
)

type DemoHandler struct {
	demoService *services.DemoService
	log         *zap.Logger
}

func NewDemoHandler(demoService *services.DemoService, log *zap.Logger) *DemoHandler {
	return &DemoHandler{
		demoService: demoService,
		log:         log,
	}
}

// ListCities handles GET /api/v1/cities
func (h *DemoHandler) ListCities(c *gin.Context) {
	cities, err := h.demoService.Cities(c.Request.Context())
	if err != nil {
		h.internalError(c, err, "Failed to list cities")
		return
	}
	responses.List(c, http.StatusOK, cities, "")
}

// ListCityCustomers handles GET /api/v1/cities/:id/customers
func (h *DemoHandler) ListCityCustomers(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	customers, err := h.demoService.CityCustomers(c.Request.Context(), id)
	if err != nil {
		h.internalError(c, err, "Failed to list customers")
		return
	}
	if customers == nil {
		responses.Fail(c, http.StatusNotFound, nil, "City not found")
		return
	}
	responses.List(c, http.StatusOK, customers, "")
}

// ListCustomers handles GET /api/v1/customers
func (h *DemoHandler) ListCustomers(c *gin.Context) {
	customers, err := h.demoService.Customers(c.Request.Context())
	if err != nil {
		h.internalError(c, err, "Failed to list customers")
		return
	}
	responses.List(c, http.StatusOK, customers, "")
}

// GetCustomer handles GET /api/v1/customers/:id
func (h *DemoHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	customer, err := h.demoService.Customer(c.Request.Context(), id)
	if err != nil {
		h.internalError(c, err, "Failed to get customer")
		return
	}
	if customer == nil {
		responses.Fail(c, http.StatusNotFound, nil, "Customer not found")
		return
	}
	responses.Success(c, http.StatusOK, customer, "")
}

// ListCustomerOrders handles GET /api/v1/customers/:id/orders
func (h *DemoHandler) ListCustomerOrders(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	orders, err := h.demoService.CustomerOrders(c.Request.Context(), id)
	if err != nil {
		h.internalError(c, err, "Failed to list orders")
		return
	}
	if orders == nil {
		responses.Fail(c, http.StatusNotFound, nil, "Customer not found")
		return
	}
	responses.List(c, http.StatusOK, orders, "")
}

// ListOrders handles GET /api/v1/orders
func (h *DemoHandler) ListOrders(c *gin.Context) {
	orders, err := h.demoService.Orders(c.Request.Context())
	if err != nil {
		h.internalError(c, err, "Failed to list orders")
		return
	}
	responses.List(c, http.StatusOK, orders, "")
}

// GetStats handles GET /api/v1/stats
func (h *DemoHandler) GetStats(c *gin.Context) {
	stats, err := h.demoService.Stats(c.Request.Context())
	if err != nil {
		h.internalError(c, err, "Failed to compute stats")
		return
	}
	responses.Success(c, http.StatusOK, stats, "")
}

// Reseed handles POST /api/v1/seed
func (h *DemoHandler) Reseed(c *gin.Context) {
	result, err := h.demoService.Reseed(c.Request.Context())
	if err != nil {
		h.internalError(c, err, "Failed to reseed demo data")
		return
	}
	responses.Success(c, http.StatusCreated, result, "Demo data reseeded successfully")
}

func (h *DemoHandler) internalError(c *gin.Context, err error, message string) {
	h.log.Error(message, zap.Error(err), zap.String("path", c.FullPath()))
	responses.Fail(c, http.StatusInternalServerError, err, message)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid id")
		return 0, false
	}
	return uint(id), true
}
