// ABOUTME: Read-through cache in front of a MemoryStore
// ABOUTME: Serves repeat personalization lookups without hitting the backend

package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/markalston/callbridge/cache"
	"github.com/markalston/callbridge/models"
	"golang.org/x/sync/singleflight"
)

// CachingStore caches GetMemory results for a TTL. Concurrent misses for
// the same caller share one backend read. Writes drop the cached entry so
// the next read goes to the backend.
type CachingStore struct {
	next    MemoryStore
	memory  *cache.Cache[models.CallerMemory]
	sfGroup singleflight.Group

	// mu orders cache fills against writes. writes is bumped after every
	// caller write; a read only fills the cache if no write finished
	// while it was in flight.
	mu     sync.Mutex
	writes uint64
}

// NewCachingStore wraps next with a cache of the given TTL.
func NewCachingStore(next MemoryStore, ttl time.Duration) *CachingStore {
	return &CachingStore{
		next:   next,
		memory: cache.New[models.CallerMemory](ttl),
	}
}

func (c *CachingStore) GetMemory(ctx context.Context, phoneHash string) (models.CallerMemory, error) {
	if mem, ok := c.memory.Get(phoneHash); ok {
		return cloneMemory(mem), nil
	}

	// The shared read must not fail for every waiter when the first
	// caller goes away.
	readCtx := context.WithoutCancel(ctx)
	v, err, _ := c.sfGroup.Do(phoneHash, func() (interface{}, error) {
		c.mu.Lock()
		before := c.writes
		c.mu.Unlock()

		mem, err := c.next.GetMemory(readCtx, phoneHash)
		if err != nil {
			return models.CallerMemory{}, err
		}

		c.mu.Lock()
		if c.writes == before {
			c.memory.Set(phoneHash, mem)
		}
		c.mu.Unlock()
		return mem, nil
	})
	if err != nil {
		return models.CallerMemory{}, err
	}
	return cloneMemory(v.(models.CallerMemory)), nil
}

func (c *CachingStore) AddFact(ctx context.Context, phoneHash, fact, source string) (models.CallerMemory, error) {
	mem, err := c.next.AddFact(ctx, phoneHash, fact, source)
	c.afterWrite(phoneHash)
	return mem, err
}

func (c *CachingStore) RecordCall(ctx context.Context, phoneHash string, rec models.CallRecord) (models.CallerMemory, error) {
	mem, err := c.next.RecordCall(ctx, phoneHash, rec)
	c.afterWrite(phoneHash)
	return mem, err
}

func (c *CachingStore) AddNote(ctx context.Context, text string) (models.Note, error) {
	return c.next.AddNote(ctx, text)
}

func (c *CachingStore) ListNotes(ctx context.Context) ([]models.Note, error) {
	return c.next.ListNotes(ctx)
}

// Close stops the cache and closes the wrapped store.
func (c *CachingStore) Close() error {
	c.memory.Close()
	return c.next.Close()
}

// afterWrite runs once the backend write has returned, whether or not it
// succeeded. Reads already in flight may hold pre-write data, so they are
// kept out of the cache and new readers start a fresh backend read.
func (c *CachingStore) afterWrite(phoneHash string) {
	c.mu.Lock()
	c.writes++
	c.memory.Invalidate(phoneHash)
	c.sfGroup.Forget(phoneHash)
	c.mu.Unlock()
}

// cloneMemory copies the fact slice so callers cannot mutate cached state.
func cloneMemory(mem models.CallerMemory) models.CallerMemory {
	mem.Facts = slices.Clone(mem.Facts)
	if mem.Facts == nil {
		mem.Facts = []models.Fact{}
	}
	if mem.LastCallAt != nil {
		t := *mem.LastCallAt
		mem.LastCallAt = &t
	}
	return mem
}

var _ MemoryStore = (*CachingStore)(nil)
