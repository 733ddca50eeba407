package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendBolt  = "bolt"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend   string
	Dir       string
	RedisAddr string
	Compress  bool
}

// BoltFile is the database file the bolt backend keeps in Config.Dir.
const BoltFile = "cache.db"

// Open builds the cache described by cfg. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch cfg.Backend {
	case "", BackendFile:
		c, err = NewFileCache(cfg.Dir)
	case BackendBolt:
		if err = os.MkdirAll(cfg.Dir, 0o755); err == nil {
			c, err = NewBoltCache(filepath.Join(cfg.Dir, BoltFile))
		}
	case BackendRedis:
		c, err = NewRedisCache(ctx, RedisOptions{Addr: cfg.RedisAddr, Prefix: "gitlanes:"})
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Compress {
		c = NewCompressed(c)
	}
	return c, nil
}
