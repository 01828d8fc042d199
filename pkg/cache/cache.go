// Package cache stores rendered poster artifacts.
//
// Renders are deterministic for a given request, settings and asset set, so
// their encoded output can be reused. The same store also backs the web
// server's download hand-off: a rendered artifact is kept under a random id
// long enough for the user to click "Download".
//
// Backends:
//
//   - [NullCache]: stores nothing (caching disabled)
//   - [MemoryCache]: in-process map with expiry, for the web server
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: shared store for several server instances
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLArtifact is how long a rendered poster is reused.
	TTLArtifact = 24 * time.Hour
	// TTLHandoff is how long a server render stays downloadable.
	TTLHandoff = 30 * time.Minute
)

// Cache is a byte store with per-entry expiry. A ttl of zero means the entry
// does not expire. Get reports a miss with ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
