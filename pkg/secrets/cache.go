package secrets

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value      T
	expiration time.Time
}

// Cache is a thread-safe TTL cache for resolved secret values, parameterised
// on value type so callers can cache whatever their secret decodes into (the
// tracker caches the session cookie as a plain string).
type Cache[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
	ttl   time.Duration
}

// NewCache creates a TTL cache. The TTL bounds how long a rotated upstream
// secret keeps being served from memory.
func NewCache[T any](defaultTTL time.Duration) *Cache[T] {
	return &Cache[T]{
		items: make(map[string]entry[T]),
		ttl:   defaultTTL,
	}
}

// Get returns the cached value for key, dropping it on expiry.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if time.Now().After(item.expiration) {
		c.Bust(key)
		return zero, false
	}
	return item.value, true
}

// Put inserts or overwrites an entry with a fresh TTL.
func (c *Cache[T]) Put(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[T]{
		value:      value,
		expiration: time.Now().Add(c.ttl),
	}
}

// Bust drops a single entry, used when the session cookie is rotated and the
// next resolve must hit the backend.
func (c *Cache[T]) Bust(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// StartCleaner periodically removes expired entries until stop closes.
func (c *Cache[T]) StartCleaner(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-stop:
			return
		}
	}
}

func (c *Cache[T]) cleanupExpired() {
	now := time.Now()
	c.mu.Lock()
	for k, v := range c.items {
		if now.After(v.expiration) {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}
