package optimizer

import (
	"sync"
	"time"

	"trading-signal-lab/internal/backtest"
)

// Cache stores finished backtest results keyed by run fingerprint.
// It is an explicit, injected capability: the optimizer never keeps an
// ambient result map of its own.
type Cache interface {
	// Get returns a cached result, or false when absent or expired.
	Get(key string) (*backtest.Result, bool)

	// Set stores a result under the key.
	Set(key string, result *backtest.Result)

	// Invalidate removes the key.
	Invalidate(key string)
}

// MemoryCache is an in-process Cache with per-entry TTL.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryCacheEntry

	now func() time.Time // injectable clock for tests
}

type memoryCacheEntry struct {
	result    *backtest.Result
	expiresAt time.Time
}

// NewMemoryCache creates a TTL cache. A non-positive ttl means entries
// never expire.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryCacheEntry),
		now:     time.Now,
	}
}

// Get returns a cached result, dropping it when expired.
func (c *MemoryCache) Get(key string) (*backtest.Result, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.Invalidate(key)
		return nil, false
	}
	return entry.result, true
}

// Set stores a result under the key.
func (c *MemoryCache) Set(key string, result *backtest.Result) {
	entry := memoryCacheEntry{result: result}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

// Invalidate removes the key.
func (c *MemoryCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Compile-time interface check.
var _ Cache = (*MemoryCache)(nil)
