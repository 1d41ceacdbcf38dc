// Package cache stores derived bytes keyed by content.
//
// The CSV loader uses it to skip aggregation when an input file has not
// changed. Three backends share the [Cache] interface:
//
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: a shared Redis instance, for teams rendering the same data
//   - [NullCache]: caching disabled (--no-cache)
//
// Keys come from a [Keyer], which hashes the input content together with
// every option that changes the derived result.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long aggregated tables stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and reports how many were removed.
	Clear(ctx context.Context) (int, error)
}
