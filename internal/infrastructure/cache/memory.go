package cache

import (
	"orderdesk-backend/pkg/cache"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// NoExpiration keeps an item until it is deleted or flushed.
const NoExpiration = gocache.NoExpiration

type memoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a new in-memory cache service
// defaultExpiration: default TTL for items
// cleanupInterval: how often to scan for expired items
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) cache.CacheService {
	return &memoryCache{
		store: gocache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *memoryCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

// Set with a zero duration uses the cache's default expiration.
func (c *memoryCache) Set(key string, value interface{}, duration time.Duration) {
	if duration == 0 {
		duration = gocache.DefaultExpiration
	}
	c.store.Set(key, value, duration)
}

func (c *memoryCache) Delete(key string) {
	c.store.Delete(key)
}

func (c *memoryCache) Flush() {
	c.store.Flush()
}
