// Package cache stores pipeline results between runs.
//
// Every backend implements [Cache]: a byte store with per-entry TTLs. Keys
// come from a [Keyer] so the CLI, the HTTP server and tests agree on naming.
//
//   - [FileCache]: one file per entry under a directory, used by the CLI
//   - [BoltCache]: a single bbolt database file
//   - [RedisCache]: a shared cache for server deployments
//   - [NullCache]: caching disabled
//
// [Compressed] wraps any backend with zstd, which pays off for layouts of
// long histories.
package cache

import (
	"context"
	"time"
)

// Default TTLs per pipeline stage. Feeds depend on the repository state and
// expire quickly; layouts and artifacts are keyed by content and can live long.
const (
	TTLFeed     = 10 * time.Minute
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a key/value byte store with expiration.
//
// Get reports a miss with ok == false and a nil error. A ttl <= 0 stores the
// entry without expiry. Implementations are safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
