package domain

import (
	"context"
	"time"
)

// Cache defines the interface for result caching.
// Supports two-phase caching: local LRU (Community) + Redis (Pro).
// Entries are immutable once written and keyed by the rendered query, so
// concurrent identical writes are redundant but harmless.
type Cache interface {
	// Get retrieves a value from cache.
	// Returns nil, nil if key not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from cache.
	Delete(ctx context.Context, key string) error

	// GetResultSet retrieves a cached result set.
	// Returns nil, nil if key not found.
	GetResultSet(ctx context.Context, key string) (*ResultSet, error)

	// SetResultSet caches a result set under a rendered-query key.
	SetResultSet(ctx context.Context, key string, rs *ResultSet, ttl time.Duration) error

	// IncrementCounter atomically increments a windowed counter and
	// returns the new value. Used for report usage statistics.
	IncrementCounter(ctx context.Context, key string, window time.Duration) (int64, error)

	// GetCounter reads a windowed counter without incrementing it.
	// Returns 0 for an absent or expired counter.
	GetCounter(ctx context.Context, key string) (int64, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// CacheConfig holds configuration for cache initialization.
type CacheConfig struct {
	// Type is the cache type: "memory" or "redis"
	Type string

	// Local LRU cache settings (Community tier)
	LocalMaxSize int
	LocalTTL     time.Duration

	// Redis settings (Pro tier)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Two-phase settings
	EnableTwoPhase bool // If true, check local first, then Redis
}
