// Package cache stores rendered artifacts between runs.
//
// Rendering a definition is deterministic: the same definition content with
// the same options always produces the same bytes. The pipeline runner uses
// a [Cache] to skip layout and export when nothing changed. Keys are content
// hashes (see [ArtifactKey]), so renaming or moving a definition file still
// hits the cache.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default,
//     ~/.cache/sankeytimeline)
//   - [RedisCache]: a shared Redis instance
//   - [MemoryCache]: in-process map, mostly for tests
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiration.
//
// Get reports a miss with ok == false and a nil error. A ttl of zero on Set
// means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
