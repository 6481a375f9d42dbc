package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ormdemo/internal/config"
	"ormdemo/internal/logger"
)

// Handle owns the gorm session and, for postgres, the pgx pool behind it.
type Handle struct {
	DB   *gorm.DB
	pool *pgxpool.Pool
	log  *zap.Logger
}

// PoolOptions tunes the pgx connection pool.
type PoolOptions struct {
	MaxConns       int32
	MinConns       int32
	ConnectTimeout time.Duration
}

// Open connects to the store selected by cfg.DBDriver.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Handle, error) {
	if cfg.DBDriver == config.DriverSQLite {
		return OpenSQLite(cfg.SQLitePath, log)
	}

	if cfg.HasAdminCredentials() {
		if err := EnsureDatabaseExists(ctx, cfg, log); err != nil {
			return nil, err
		}
	}

	return OpenPostgres(ctx, PostgresDSN(cfg, cfg.DBUsername, cfg.DBPassword, cfg.DBDatabase), PoolOptions{
		MaxConns:       cfg.DBMaxConns,
		MinConns:       cfg.DBMinConns,
		ConnectTimeout: cfg.DBConnectTimeout,
	}, log)
}

// PostgresDSN builds a postgres:// URL with the user info and database name escaped.
func PostgresDSN(cfg *config.Config, user, password, database string) string {
	userInfo := url.UserPassword(user, password)
	sslMode := cfg.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s?sslmode=%s",
		userInfo.String(),
		cfg.DBHost,
		cfg.DBPort,
		url.PathEscape(database),
		sslMode,
	)
}

// EnsureDatabaseExists connects to the maintenance database with the admin
// credentials and creates cfg.DBDatabase when it is missing.
func EnsureDatabaseExists(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	dsn := PostgresDSN(cfg, cfg.DBAdminUser, cfg.DBAdminPassword, "postgres")

	log.Info("Checking if database exists", zap.String("database", cfg.DBDatabase))

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("%w: failed to parse admin connection string: %w", ErrConnect, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("%w: failed to connect to PostgreSQL: %w", ErrConnect, err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(ctx, timeoutOrDefault(cfg.DBConnectTimeout))
	defer cancel()

	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"
	if err := pool.QueryRow(ctx, query, cfg.DBDatabase).Scan(&exists); err != nil {
		return fmt.Errorf("%w: failed to check if database exists: %w", ErrConnect, err)
	}

	if exists {
		log.Info("Database already exists", zap.String("database", cfg.DBDatabase))
		return nil
	}

	// CREATE DATABASE cannot run inside a transaction block
	createQuery := fmt.Sprintf("CREATE DATABASE %s", pgx.Identifier{cfg.DBDatabase}.Sanitize())
	if _, err := pool.Exec(ctx, createQuery); err != nil {
		return fmt.Errorf("%w: failed to create database: %w", ErrSchema, err)
	}
	log.Info("Database created", zap.String("database", cfg.DBDatabase))
	return nil
}

// OpenPostgres creates a pgx pool for dsn, verifies it and hands it to gorm.
func OpenPostgres(ctx context.Context, dsn string, opts PoolOptions, log *zap.Logger) (*Handle, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse connection string (check your .env file): %w", ErrConnect, err)
	}

	if opts.MaxConns > 0 {
		poolCfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		poolCfg.MinConns = opts.MinConns
	}
	poolCfg.MaxConnLifetime = 5 * time.Minute
	poolCfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create connection pool: %w", ErrConnect, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeoutOrDefault(opts.ConnectTimeout))
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %w", ErrConnect, err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn: stdlib.OpenDBFromPool(pool),
	}), gormConfig(log))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: failed to open gorm session: %w", ErrConnect, err)
	}

	log.Info("Database connection pool established",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.Int32("max_conns", poolCfg.MaxConns),
	)
	return &Handle{DB: db, pool: pool, log: log}, nil
}

// OpenSQLite opens path with foreign keys enforced. Use ":memory:" for an
// in-memory database; the pool is pinned to one connection so every
// statement sees the same database.
func OpenSQLite(path string, log *zap.Logger) (*Handle, error) {
	dsn := path + "?_foreign_keys=on"
	if path != ":memory:" {
		dsn += "&_journal_mode=WAL"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open sqlite database: %w", ErrConnect, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: failed to ping sqlite database: %w", ErrConnect, err)
	}

	log.Info("SQLite database opened", zap.String("path", path))
	return &Handle{DB: db, log: log}, nil
}

// Ping checks that the store is reachable.
func (h *Handle) Ping(ctx context.Context) error {
	sqlDB, err := h.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the gorm connection and the pgx pool, if any.
func (h *Handle) Close() error {
	sqlDB, err := h.DB.DB()
	if err != nil {
		return err
	}
	err = sqlDB.Close()
	if h.pool != nil {
		h.pool.Close()
	}
	h.log.Info("Database connection closed")
	return err
}

func gormConfig(log *zap.Logger) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.NewGormLogger(log),
		TranslateError: true,
	}
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 5 * time.Second
	}
	return d
}
