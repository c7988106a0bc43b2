// Package cache stores rendered feature tables keyed by input content.
//
// Backends:
//   - [FileCache]: one file per entry under a directory, for CLI use
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: never stores anything (caching disabled)
//
// Keys come from a [Keyer] so that every backend sees the same layout:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.TableKey(cache.Hash(input), cache.TableKeyOpts{Format: "gff3"})
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the value and true on a hit. Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
