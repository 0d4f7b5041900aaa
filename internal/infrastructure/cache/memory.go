package cache

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"

	pkgcache "lovewall-backend/pkg/cache"
)

type memoryEntry struct {
	payload   []byte
	fetchedAt time.Time
	ttl       time.Duration
}

// MemoryCache is a per-process TTL cache. Each consuming view holds its own
// instance so TTLs stay a per-view decision instead of a global policy.
// Entries expire lazily: a Get past fetchedAt+ttl reports a miss and drops
// the entry. Payloads round-trip through JSON so Get/Set semantics match
// the redis implementation exactly.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	// now is swappable for tests.
	now func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// NewMemoryCacheWithClock injects a clock, used by tests to step time.
func NewMemoryCacheWithClock(now func() time.Time) *MemoryCache {
	c := NewMemoryCache()
	c.now = now
	return c
}

var _ pkgcache.Cache = (*MemoryCache)(nil)

func (m *MemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if m.now().Sub(entry.fetchedAt) >= entry.ttl {
		m.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, still := m.entries[key]; still && cur.fetchedAt.Equal(entry.fetchedAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{payload: data, fetchedAt: m.now(), ttl: ttl}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) DeletePattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Ping(ctx context.Context) error {
	return nil
}
