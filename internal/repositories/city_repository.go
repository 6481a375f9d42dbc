package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ormdemo/internal/models"
)

type CityRepository struct {
	db *gorm.DB
}

func NewCityRepository(db *gorm.DB) *CityRepository {
	return &CityRepository{db: db}
}

func (r *CityRepository) Create(ctx context.Context, city *models.City) error {
	return r.db.WithContext(ctx).Create(city).Error
}

func (r *CityRepository) List(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	err := r.db.WithContext(ctx).Order("id").Find(&cities).Error
	return cities, err
}

func (r *CityRepository) GetByID(ctx context.Context, id uint) (*models.City, error) {
	var city models.City
	err := r.db.WithContext(ctx).First(&city, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

func (r *CityRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.City{}).Count(&n).Error
	return n, err
}

// DeleteAll removes every city. It fails while customers still reference one.
func (r *CityRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.City{})
	return res.RowsAffected, res.Error
}
