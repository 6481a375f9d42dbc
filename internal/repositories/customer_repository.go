package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ormdemo/internal/models"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Omit("City").Create(customer).Error
}

// List returns all customers with their city loaded.
func (r *CustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).Preload("City").Order("id").Find(&customers).Error
	return customers, err
}

func (r *CustomerRepository) ListByCity(ctx context.Context, cityID uint) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).Where("city_id = ?", cityID).Order("id").Find(&customers).Error
	return customers, err
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Preload("City").First(&customer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&n).Error
	return n, err
}

// CountOrphans counts customers whose city_id has no matching city row.
func (r *CustomerRepository) CountOrphans(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).
		Joins("LEFT JOIN cities ON cities.id = customers.city_id").
		Where("cities.id IS NULL").
		Count(&n).Error
	return n, err
}

func (r *CustomerRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Customer{})
	return res.RowsAffected, res.Error
}
