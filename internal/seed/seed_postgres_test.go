package seed_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ormdemo/internal/database"
	"ormdemo/internal/models"
	"ormdemo/internal/repositories"
	"ormdemo/internal/testutil"
)

func TestSeeder_Postgres(t *testing.T) {
	handle := testutil.NewPostgres(t)
	ctx := context.Background()
	seeder := newTestSeeder(t, 11)

	first, err := seeder.Run(ctx, handle.DB)
	require.NoError(t, err)
	assertSeeded(t, handle.DB, first)

	second, err := seeder.Run(ctx, handle.DB)
	require.NoError(t, err)
	assertSeeded(t, handle.DB, second)
	assert.Equal(t, [3]int64{3, 3, 3}, counts(t, handle.DB))

	// SERIAL ids keep growing across resets.
	assert.Greater(t, second.CityIDs[0], first.CityIDs[2])

	t.Run("deleting referenced cities fails", func(t *testing.T) {
		_, err := repositories.NewCityRepository(handle.DB).DeleteAll(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, database.Classify(err), database.ErrConstraint)
		assert.Equal(t, [3]int64{3, 3, 3}, counts(t, handle.DB))
	})

	t.Run("customer with unknown city is rejected", func(t *testing.T) {
		err := repositories.NewCustomerRepository(handle.DB).Create(ctx, &models.Customer{
			Name:   "Mallory",
			Age:    40,
			CityID: second.CityIDs[2] + 1000,
		})
		require.Error(t, err)
		assert.ErrorIs(t, database.Classify(err), database.ErrConstraint)
	})

	t.Run("migrate is idempotent", func(t *testing.T) {
		require.NoError(t, database.Migrate(handle.DB, zaptest.NewLogger(t)))
		for _, table := range models.All() {
			assert.True(t, handle.DB.Migrator().HasTable(table.TableName()), table.TableName())
		}
	})

	t.Run("concurrent reseeds leave exactly one data set", func(t *testing.T) {
		const workers = 6
		errs := make([]error, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = seeder.Run(ctx, handle.DB)
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}
		assert.Equal(t, [3]int64{3, 3, 3}, counts(t, handle.DB))
	})
}
