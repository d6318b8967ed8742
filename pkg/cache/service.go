package cache

import "time"

// CacheService defines the behavior for caching mechanisms
type CacheService interface {
	// Get retrieves a value from the cache
	// Returns value, true if found
	// Returns nil, false if not found
	Get(key string) (interface{}, bool)

	// Set adds a value to the cache with a duration
	Set(key string, value interface{}, duration time.Duration)

	// Delete removes a value from the cache
	Delete(key string)

	// Flush removes all items
	Flush()
}

type namespaced struct {
	prefix string
	inner  CacheService
}

// Namespaced prefixes every key so several features can share one store.
// Flush only clears the underlying store as a whole.
func Namespaced(prefix string, inner CacheService) CacheService {
	return &namespaced{prefix: prefix + ":", inner: inner}
}

func (n *namespaced) Get(key string) (interface{}, bool) {
	return n.inner.Get(n.prefix + key)
}

func (n *namespaced) Set(key string, value interface{}, duration time.Duration) {
	n.inner.Set(n.prefix+key, value, duration)
}

func (n *namespaced) Delete(key string) {
	n.inner.Delete(n.prefix + key)
}

func (n *namespaced) Flush() {
	n.inner.Flush()
}
