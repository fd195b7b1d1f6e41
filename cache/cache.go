// ABOUTME: In-memory cache with TTL-based expiration
// ABOUTME: Thread-safe generic cache with background cleanup of expired entries

package cache

import (
	"log/slog"
	"sync"
	"time"
)

const cleanupInterval = 1 * time.Minute

type entry[V any] struct {
	data      V
	expiresAt time.Time
}

// Cache maps string keys to values that expire after a fixed TTL.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache and starts its cleanup goroutine. Call Close to
// stop it.
func New[V any](ttl time.Duration) *Cache[V] {
	c := &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go c.startCleanup(cleanupInterval)
	return c
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return zero, false
	}

	if !c.now().Before(e.expiresAt) {
		c.Invalidate(key)
		slog.Debug("Cache expired", "key", key)
		return zero, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry[V]{data: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	slog.Debug("Cache set", "key", key, "ttl", ttl)
}

// Invalidate removes key.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *Cache[V]) removeExpired() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
