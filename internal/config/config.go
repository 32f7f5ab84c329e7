// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration values for the server.
// Values are populated by Load from environment variables; the CLI may
// override individual fields from flags before use.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// StoreDriver selects the persistence backend: "postgres" or "sqlite".
	// Defaults to "postgres".
	StoreDriver string

	// DatabaseURL is the Postgres connection string.
	// Required when StoreDriver is "postgres".
	DatabaseURL string

	// SQLitePath is the SQLite database file. Defaults to "todo.db".
	// ":memory:" gives a throwaway database.
	SQLitePath string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps request body size. Defaults to 64 KiB.
	MaxBodyBytes int64

	// DBConnectTimeout bounds how long startup keeps retrying the first
	// database ping. Defaults to 10s.
	DBConnectTimeout time.Duration

	// AutoMigrate applies pending migrations at startup. Defaults to false.
	AutoMigrate bool
}

// Override adjusts a Config after the environment has been read and before
// it is validated. The CLI uses overrides to apply command-line flags.
type Override func(*Config)

// Load reads configuration from environment variables, applies overrides in
// order, and returns the validated Config.
// Returns an error listing any required variables that are not set, or the
// first variable that cannot be parsed.
func Load(overrides ...Override) (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "todo.db"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	var err error
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "65536"), 10, 64); err != nil || cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES: must be a positive integer, got %q", os.Getenv("MAX_BODY_BYTES"))
	}
	if cfg.DBConnectTimeout, err = time.ParseDuration(getEnv("DB_CONNECT_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("DB_CONNECT_TIMEOUT: %w", err)
	}
	if cfg.AutoMigrate, err = strconv.ParseBool(getEnv("AUTO_MIGRATE", "false")); err != nil {
		return Config{}, fmt.Errorf("AUTO_MIGRATE: %w", err)
	}

	for _, o := range overrides {
		o(&cfg)
	}
	cfg.StoreDriver = strings.ToLower(cfg.StoreDriver)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the cross-field rules: a known driver, and a DATABASE_URL
// whenever Postgres is selected.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("required environment variables not set: %s", "DATABASE_URL")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("required environment variables not set: %s", "SQLITE_PATH")
		}
	default:
		return fmt.Errorf("STORE_DRIVER: unknown driver %q (want %s or %s)", c.StoreDriver, DriverPostgres, DriverSQLite)
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
