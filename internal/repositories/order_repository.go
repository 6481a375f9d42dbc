package repositories

import (
	"context"

	"gorm.io/gorm"

	"ormdemo/internal/models"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(order).Error
}

// List returns all orders with their customer and the customer's city loaded.
func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Customer.City").Order("id").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

// CountOrphans counts orders whose customer_id has no matching customer row.
func (r *OrderRepository) CountOrphans(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Joins("LEFT JOIN customers ON customers.id = orders.customer_id").
		Where("customers.id IS NULL").
		Count(&n).Error
	return n, err
}

func (r *OrderRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Order{})
	return res.RowsAffected, res.Error
}
