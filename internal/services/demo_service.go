package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"ormdemo/internal/models"
	"ormdemo/internal/repositories"
	"ormdemo/internal/seed"
)

type DemoService struct {
	db           *gorm.DB
	seeder       *seed.Seeder
	cityRepo     *repositories.CityRepository
	customerRepo *repositories.CustomerRepository
	orderRepo    *repositories.OrderRepository
}

func NewDemoService(
	db *gorm.DB,
	seeder *seed.Seeder,
	cityRepo *repositories.CityRepository,
	customerRepo *repositories.CustomerRepository,
	orderRepo *repositories.OrderRepository,
) *DemoService {
	return &DemoService{
		db:           db,
		seeder:       seeder,
		cityRepo:     cityRepo,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
	}
}

// Stats is a row count and referential integrity report.
type Stats struct {
	Cities          int64 `json:"cities"`
	Customers       int64 `json:"customers"`
	Orders          int64 `json:"orders"`
	OrphanCustomers int64 `json:"orphan_customers"`
	OrphanOrders    int64 `json:"orphan_orders"`
}

func (s *DemoService) Reseed(ctx context.Context) (*seed.Result, error) {
	result, err := s.seeder.Run(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to reseed demo data: %w", err)
	}
	return result, nil
}

func (s *DemoService) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	var err error

	if stats.Cities, err = s.cityRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count cities: %w", err)
	}
	if stats.Customers, err = s.customerRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if stats.Orders, err = s.orderRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if stats.OrphanCustomers, err = s.customerRepo.CountOrphans(ctx); err != nil {
		return nil, fmt.Errorf("failed to check customers: %w", err)
	}
	if stats.OrphanOrders, err = s.orderRepo.CountOrphans(ctx); err != nil {
		return nil, fmt.Errorf("failed to check orders: %w", err)
	}
	return &stats, nil
}

func (s *DemoService) Cities(ctx context.Context) ([]models.City, error) {
	return s.cityRepo.List(ctx)
}

// CityCustomers returns nil, nil when the city does not exist.
func (s *DemoService) CityCustomers(ctx context.Context, cityID uint) ([]models.Customer, error) {
	city, err := s.cityRepo.GetByID(ctx, cityID)
	if err != nil || city == nil {
		return nil, err
	}
	customers, err := s.customerRepo.ListByCity(ctx, cityID)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}

func (s *DemoService) Customers(ctx context.Context) ([]models.Customer, error) {
	return s.customerRepo.List(ctx)
}

func (s *DemoService) Customer(ctx context.Context, id uint) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

// CustomerOrders returns nil, nil when the customer does not exist.
func (s *DemoService) CustomerOrders(ctx context.Context, customerID uint) ([]models.Order, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil || customer == nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *DemoService) Orders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.List(ctx)
}
