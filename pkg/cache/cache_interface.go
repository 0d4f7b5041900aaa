package cache

import (
	"context"
	"time"
)

// Cache is the contract for the data cache layer.
// Implementations: Redis (shared across API replicas) and in-memory
// (per-process, one instance per consuming view with its own TTL).
type Cache interface {
	// Get reads a key and unmarshals the payload into dest.
	// Returns (found, error):
	// - found = true: cache hit, dest populated
	// - found = false: cache miss or expired entry, dest untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a payload under key with a TTL, overwriting any prior entry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys, forcing the next Get to miss regardless of TTL.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
