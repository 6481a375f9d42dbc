package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the flat runtime configuration. Keys match the lower-cased
// environment variable names (DB_HOST -> db_host).
type Config struct {
	AppEnv   string `koanf:"app_env"`
	Port     int    `koanf:"port"`
	LogLevel string `koanf:"log_level"`

	DBDriver         string        `koanf:"db_driver"`
	DBHost           string        `koanf:"db_host"`
	DBPort           string        `koanf:"db_port"`
	DBUsername       string        `koanf:"db_username"`
	DBPassword       string        `koanf:"db_password"`
	DBDatabase       string        `koanf:"db_database"`
	DBAdminUser      string        `koanf:"db_admin_user"`
	DBAdminPassword  string        `koanf:"db_admin_password"`
	DBSSLMode        string        `koanf:"db_sslmode"`
	DBMaxConns       int32         `koanf:"db_max_conns"`
	DBMinConns       int32         `koanf:"db_min_conns"`
	DBConnectTimeout time.Duration `koanf:"db_connect_timeout"`
	SQLitePath       string        `koanf:"sqlite_path"`

	// SeedRandSeed fixes the random customer/order links when non-zero.
	SeedRandSeed uint64 `koanf:"seed_rand_seed"`

	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"app_env":              "development",
		"port":                 8080,
		"log_level":            "info",
		"db_driver":            DriverPostgres,
		"db_host":              "localhost",
		"db_port":              "5432",
		"db_sslmode":           "disable",
		"db_max_conns":         25,
		"db_min_conns":         5,
		"db_connect_timeout":   "5s",
		"sqlite_path":          "ormdemo.db",
		"seed_rand_seed":       0,
		"cors_allowed_origins": "*",
	}
}

// Load builds a Config from defaults, the given .env files, the process
// environment and any flags explicitly set on flags (highest priority).
// Missing .env files are ignored.
func Load(flags *pflag.FlagSet, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read env file %s: %w", f, err)
		}
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	known := defaults()
	for _, key := range []string{"db_username", "db_password", "db_database", "db_admin_user", "db_admin_password"} {
		known[key] = ""
	}

	// DB_HOST -> db_host; unrelated and empty variables are dropped
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(key)
		if _, ok := known[key]; !ok || value == "" {
			return "", nil
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, ok := known[key]; !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected driver has everything it needs.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}

	switch c.DBDriver {
	case DriverPostgres:
		required := map[string]string{
			"DB_HOST":     c.DBHost,
			"DB_PORT":     c.DBPort,
			"DB_USERNAME": c.DBUsername,
			"DB_PASSWORD": c.DBPassword,
			"DB_DATABASE": c.DBDatabase,
		}
		for _, name := range []string{"DB_HOST", "DB_PORT", "DB_USERNAME", "DB_PASSWORD", "DB_DATABASE"} {
			if required[name] == "" {
				return fmt.Errorf("%s environment variable is required", name)
			}
		}
		if c.DBMaxConns < c.DBMinConns {
			return fmt.Errorf("DB_MAX_CONNS (%d) must not be lower than DB_MIN_CONNS (%d)", c.DBMaxConns, c.DBMinConns)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH environment variable is required")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q: must be %q or %q", c.DBDriver, DriverPostgres, DriverSQLite)
	}
	return nil
}

// IsProd reports whether the app runs in production mode.
func (c *Config) IsProd() bool {
	return c.AppEnv == "production"
}

// HasAdminCredentials reports whether the database can be created on demand.
func (c *Config) HasAdminCredentials() bool {
	return c.DBAdminUser != "" && c.DBAdminPassword != ""
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
