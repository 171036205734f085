package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is a bounded read-through cache for computed values. Entries expire;
// there is deliberately no unbounded variant.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// MemoryStore backs Store with an in-process TTL cache.
type MemoryStore struct {
	c *gocache.Cache
}

func NewMemoryStore(ttl, cleanup time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if cleanup <= 0 {
		cleanup = time.Hour
	}
	return &MemoryStore{c: gocache.New(ttl, cleanup)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool) {
	v, found := m.c.Get(key)
	if !found {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) {
	m.c.Set(key, value, gocache.DefaultExpiration)
}
