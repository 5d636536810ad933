package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryCache go-cache包装器
type memoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache 创建基于go-cache的进程内缓存
func NewMemoryCache(config LocalConfig) Cache {
	defaultExpiration := config.DefaultExpiration
	if defaultExpiration <= 0 {
		defaultExpiration = 5 * time.Minute
	}
	cleanupInterval := config.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}

	return &memoryCache{
		cache: gocache.New(defaultExpiration, cleanupInterval),
	}
}

func (mc *memoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	return mc.cache.Get(key)
}

func (mc *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	mc.cache.Set(key, value, expiration)
	return nil
}

func (mc *memoryCache) Delete(ctx context.Context, key string) error {
	mc.cache.Delete(key)
	return nil
}

func (mc *memoryCache) Exists(ctx context.Context, key string) bool {
	_, found := mc.cache.Get(key)
	return found
}

func (mc *memoryCache) Close() error {
	mc.cache.Flush()
	return nil
}
