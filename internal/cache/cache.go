package cache

import (
	"context"
	"time"

	"github.com/emrgen/resumectl/internal/config"
	"github.com/sirupsen/logrus"
)

// Cache is a string cache whose entries expire after the TTL it was built with.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key.
	Delete(ctx context.Context, key string) error
}

// New builds the cache for the process: redis when REDIS_ADDR is set, memory otherwise.
func New(ctx context.Context, cfg *config.Config) Cache {
	if cfg.RedisAddr != "" {
		r := NewRedis(cfg.RedisAddr, cfg.CacheTTL)
		err := r.Ping(ctx)
		if err == nil {
			return r
		}
		logrus.Warnf("redis at %s unavailable, using in-memory cache: %v", cfg.RedisAddr, err)
		_ = r.Close()
	}
	return NewMemory(cfg.CacheTTL)
}

type entry struct {
	value   string
	expires time.Time
}
