package metadata

import (
	"sync"
	"time"
)

// Cache memoizes the result of a loader for a fixed duration.
type Cache[T any] struct {
	mu      sync.RWMutex
	value   T
	loaded  bool
	fetched time.Time
	ttl     time.Duration
	load    func() (T, error)
	now     func() time.Time
}

// NewCache creates a Cache around load.
func NewCache[T any](ttl time.Duration, load func() (T, error)) *Cache[T] {
	return &Cache[T]{ttl: ttl, load: load, now: time.Now}
}

func (c *Cache[T]) valid() bool {
	return c.loaded && c.now().Sub(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	var zero T
	c.value = zero
	c.loaded = false
	c.mu.Unlock()
}

// Get returns the cached value, reloading it when stale.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *Cache[T]) Get() (T, error) {
	c.mu.RLock()
	if c.valid() {
		v := c.value
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.value, nil
	}
	v, err := c.load()
	if err != nil {
		var zero T
		return zero, err
	}
	c.value = v
	c.loaded = true
	c.fetched = c.now()
	return v, nil
}
