package gate

import (
	"context"
	"sync"
	"time"
)

// LoadFunc fetches the value for key from the source of truth.
type LoadFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Cache wraps a LoadFunc with TTL-based caching so authorization does not
// hit the database on every request. Errors are never cached. A load that
// overlaps an Invalidate of the same key is returned but not stored.
type Cache[K comparable, V any] struct {
	load    LoadFunc[K, V]
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[K]cacheEntry[V]
	gens    map[K]uint64
}

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// NewCache wraps load with a cache of the given ttl.
func NewCache[K comparable, V any](load LoadFunc[K, V], ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		load:    load,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[K]cacheEntry[V]),
		gens:    make(map[K]uint64),
	}
}

// Get returns the cached value for key, loading it on miss or expiry.
func (c *Cache[K, V]) Get(ctx context.Context, key K) (V, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	gen := c.gens[key]
	c.mu.RUnlock()
	if ok && c.now().Before(e.expiresAt) {
		return e.value, nil
	}

	v, err := c.load(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}
	c.mu.Lock()
	if c.gens[key] == gen {
		c.entries[key] = cacheEntry[V]{value: v, expiresAt: c.now().Add(c.ttl)}
	}
	c.mu.Unlock()
	return v, nil
}

// Invalidate drops key. Call it when the underlying record changes.
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gens[key]++
	c.mu.Unlock()
}
