// Package seed resets the demo tables and fills them with a small,
// randomly linked data set.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ormdemo/internal/database"
	"ormdemo/internal/models"
	"ormdemo/internal/repositories"
)

// Result lists the ids assigned by the store during one run.
type Result struct {
	CityIDs     []uint    `json:"city_ids"`
	CustomerIDs []uint    `json:"customer_ids"`
	OrderIDs    []uint    `json:"order_ids"`
	OrderDate   time.Time `json:"order_date"`
}

// Seeder is safe for concurrent use; runs are serialized so two resets
// never interleave their deletes and inserts.
type Seeder struct {
	mu   sync.Mutex
	rand *rand.Rand
	now  func() time.Time
	log  *zap.Logger
}

type Option func(*Seeder)

// WithRand fixes the source used to link customers to cities and orders
// to customers.
func WithRand(r *rand.Rand) Option {
	return func(s *Seeder) { s.rand = r }
}

// WithSeed is WithRand over a PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

func WithClock(now func() time.Time) Option {
	return func(s *Seeder) { s.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Seeder) { s.log = log }
}

func New(opts ...Option) *Seeder {
	s := &Seeder{
		rand: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:  time.Now,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run ensures the tables exist, clears them and inserts the demo rows, all
// in one transaction. Any failure rolls the whole run back.
func (s *Seeder) Run(ctx context.Context, db *gorm.DB) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *Result

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.Migrate(tx, s.log); err != nil {
			return err
		}
		if err := Reset(tx, s.log); err != nil {
			return err
		}

		var err error
		result, err = s.populate(tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Seed completed",
		zap.Uints("city_ids", result.CityIDs),
		zap.Uints("customer_ids", result.CustomerIDs),
		zap.Uints("order_ids", result.OrderIDs),
	)
	return result, nil
}

// Reset deletes every order, customer and city, children first so no
// foreign key is ever left dangling.
func Reset(tx *gorm.DB, log *zap.Logger) error {
	ctx := tx.Statement.Context

	steps := []struct {
		table  string
		delete func(context.Context) (int64, error)
	}{
		{"orders", repositories.NewOrderRepository(tx).DeleteAll},
		{"customers", repositories.NewCustomerRepository(tx).DeleteAll},
		{"cities", repositories.NewCityRepository(tx).DeleteAll},
	}

	for _, step := range steps {
		n, err := step.delete(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", step.table, database.Classify(err))
		}
		log.Debug("Cleared table", zap.String("table", step.table), zap.Int64("rows", n))
	}
	return nil
}

// Populate inserts cities, then customers each linked to a random city,
// then orders each linked to a random customer. The tables are expected
// to be empty.
func (s *Seeder) Populate(tx *gorm.DB) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.populate(tx)
}

func (s *Seeder) populate(tx *gorm.DB) (*Result, error) {
	ctx := tx.Statement.Context
	cities := repositories.NewCityRepository(tx)
	customers := repositories.NewCustomerRepository(tx)
	orders := repositories.NewOrderRepository(tx)

	result := &Result{}

	s.log.Info("Loading cities...")
	for _, name := range CityNames {
		city := models.City{Name: name}
		if err := cities.Create(ctx, &city); err != nil {
			return nil, fmt.Errorf("failed to insert city %q: %w", name, database.Classify(err))
		}
		result.CityIDs = append(result.CityIDs, city.ID)
	}

	s.log.Info("Loading customers...")
	for _, c := range Customers {
		customer := models.Customer{
			Name:   c.Name,
			Age:    c.Age,
			CityID: s.pick(result.CityIDs),
		}
		if err := customers.Create(ctx, &customer); err != nil {
			return nil, fmt.Errorf("failed to insert customer %q: %w", c.Name, database.Classify(err))
		}
		result.CustomerIDs = append(result.CustomerIDs, customer.ID)
	}

	s.log.Info("Loading orders...")
	for _, sku := range OrderSKUs {
		result.OrderDate = Today(s.now())
		order := models.Order{
			SKU:        sku,
			OrderDate:  result.OrderDate,
			CustomerID: s.pick(result.CustomerIDs),
		}
		if err := orders.Create(ctx, &order); err != nil {
			return nil, fmt.Errorf("failed to insert order %q: %w", sku, database.Classify(err))
		}
		result.OrderIDs = append(result.OrderIDs, order.ID)
	}

	return result, nil
}

// pick draws one id uniformly; draws are independent, so ids may repeat.
func (s *Seeder) pick(ids []uint) uint {
	return ids[s.rand.IntN(len(ids))]
}

// Today truncates t to its calendar date, expressed as midnight UTC so it
// round-trips through a DATE column unchanged.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
