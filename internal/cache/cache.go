// Package cache provides the shared read-through TTL cache every widget
// fetch is folded through. A fresh entry short-circuits the fetcher; a
// stale or missing entry always re-fetches. Stale data is never served.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/faciam-dev/widgetboard/pkg/metrics"
)

// Fetcher produces the value for a key on a cache miss.
type Fetcher func(ctx context.Context) ([]byte, error)

// Cache is the read-through cache contract. GetOrFetch returns the cached
// value when fresh, otherwise invokes fn exactly once for this call; on
// fetch failure the error is returned and any stale entry is left in place.
type Cache interface {
	GetOrFetch(ctx context.Context, key string, fn Fetcher) ([]byte, error)
	Prune(ctx context.Context) int
}

type entry struct {
	value     []byte
	fetchedAt time.Time
}

// Memory is the in-process TTL cache. Concurrent misses on the same key may
// each run the fetcher and both write; last writer wins. That duplicate
// work is accepted, a stale overwrite inside the TTL window is immaterial.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Memory cache.
type Option func(*Memory)

// WithClock substitutes the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

// NewMemory creates a Memory cache with the given freshness window.
func NewMemory(ttl time.Duration, opts ...Option) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Memory) fresh(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.fetchedAt) >= m.ttl {
		return nil, false
	}
	return e.value, true
}

// GetOrFetch implements Cache.
func (m *Memory) GetOrFetch(ctx context.Context, key string, fn Fetcher) ([]byte, error) {
	if v, ok := m.fresh(key); ok {
		metrics.CacheHits.Inc()
		return v, nil
	}
	metrics.CacheMisses.Inc()
	v, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.entries[key] = entry{value: v, fetchedAt: m.now()}
	m.mu.Unlock()
	return v, nil
}

// Prune drops expired entries and returns how many were removed. Entries are
// never evicted on the read path, so a periodic sweep keeps growth bounded.
func (m *Memory) Prune(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for k, e := range m.entries {
		if now.Sub(e.fetchedAt) >= m.ttl {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of entries currently held, fresh or stale.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
