// Package cache stores pipeline results so repeated runs skip work.
//
// Generated point sets, histograms and rendered artifacts are all plain byte
// slices keyed by content hashes (see [Keyer]). Several backends implement
// the same [Cache] interface:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [MemoryCache]: in-process, expiring map (server default)
//   - [RedisCache]: shared cache in Redis
//   - [MongoCache]: shared cache in a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing
//
// Use [Open] to build a backend from its name.
package cache

import (
	"context"
	"time"
)

// Default time-to-live per entry type. Generation with a fixed seed is
// deterministic, so entries only expire to bound disk usage.
const (
	TTLPoints    = 7 * 24 * time.Hour
	TTLHistogram = 7 * 24 * time.Hour
	TTLArtifact  = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
