package domain

import (
	"context"
	"time"
)

// Store defines the read-only data store boundary. The engine hands it a
// parameterized query and placeholder arguments; the driver performs the
// binding. There is no write path through this interface.
type Store interface {
	// Query executes a parameterized query and returns the result set.
	Query(ctx context.Context, text string, args ...any) (*ResultSet, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// StoreConfig holds configuration for store initialization.
type StoreConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string

	// SQLite specific
	SQLitePath string

	// PostgreSQL specific
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
