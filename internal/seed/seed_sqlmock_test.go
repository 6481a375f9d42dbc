package seed_test

import (
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ormdemo/internal/database"
	"ormdemo/internal/logger"
	"ormdemo/internal/seed"
)

// oneOf matches an argument equal to any of ids.
type oneOf []int64

func (o oneOf) Match(v driver.Value) bool {
	for _, id := range o {
		switch n := v.(type) {
		case int64:
			if n == id {
				return true
			}
		case uint64:
			if int64(n) == id {
				return true
			}
		}
	}
	return false
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.NewGormLogger(zaptest.NewLogger(t)),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func returningID(id int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"}).AddRow(id)
}

func TestResetAndPopulate_StatementOrder(t *testing.T) {
	db, mock := newMockDB(t)
	today := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "orders"`)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "customers"`)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "cities"`)).WillReturnResult(sqlmock.NewResult(0, 3))

	for i, name := range []string{"St. Petersburg", "Munich", "Prague"} {
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "cities"`)).
			WithArgs(name).
			WillReturnRows(returningID(int64(11 + i)))
	}
	for i, c := range []struct {
		name string
		age  int
	}{{"Alice", 21}, {"Bob", 22}, {"Carol", 23}} {
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "customers"`)).
			WithArgs(c.name, c.age, oneOf{11, 12, 13}).
			WillReturnRows(returningID(int64(21 + i)))
	}
	for i, sku := range []string{"SKU1", "SKU2", "SKU3"} {
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
			WithArgs(sku, today, oneOf{21, 22, 23}).
			WillReturnRows(returningID(int64(31 + i)))
	}
	mock.ExpectCommit()

	seeder := seed.New(
		seed.WithSeed(5),
		seed.WithClock(func() time.Time { return today.Add(10 * time.Hour) }),
	)

	var result *seed.Result
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := seed.Reset(tx, zaptest.NewLogger(t)); err != nil {
			return err
		}
		var err error
		result, err = seeder.Populate(tx)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []uint{11, 12, 13}, result.CityIDs)
	assert.Equal(t, []uint{21, 22, 23}, result.CustomerIDs)
	assert.Equal(t, []uint{31, 32, 33}, result.OrderIDs)
	assert.Equal(t, today, result.OrderDate)
}

func TestReset_ForeignKeyViolationRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "orders"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "customers"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "cities"`)).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "fk_customers_city"})
	mock.ExpectRollback()

	err := db.Transaction(func(tx *gorm.DB) error {
		return seed.Reset(tx, zaptest.NewLogger(t))
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrConstraint)
	assert.Contains(t, err.Error(), "cities")
	require.NoError(t, mock.ExpectationsWereMet())
}
