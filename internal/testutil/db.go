// Package testutil provides database fixtures for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap/zaptest"

	"ormdemo/internal/database"
)

// NewSQLite opens an in-memory SQLite database with foreign keys enforced.
// It is closed when the test ends.
func NewSQLite(t testing.TB) *database.Handle {
	t.Helper()

	handle, err := database.OpenSQLite(":memory:", zaptest.NewLogger(t))
	require.NoError(t, err, "failed to open in-memory sqlite")

	t.Cleanup(func() { _ = handle.Close() })
	return handle
}

// NewPostgres starts a disposable PostgreSQL container and connects to it.
// The test is skipped with -short or when no container runtime is available.
func NewPostgres(t *testing.T) *database.Handle {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("ormdemo"),
		tcpostgres.WithUsername("ormdemo"),
		tcpostgres.WithPassword("ormdemo"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	handle, err := database.OpenPostgres(ctx, dsn, database.PoolOptions{
		MaxConns:       4,
		ConnectTimeout: 30 * time.Second,
	}, zaptest.NewLogger(t))
	require.NoError(t, err, "failed to connect to postgres container")

	t.Cleanup(func() { _ = handle.Close() })
	return handle
}
