package rdap

import (
	"sync"
	"time"
)

// DirectoryCache stores the parsed bootstrap directory between resolution
// requests. Implement this interface to provide a custom backend via
// Options.Cache; the default is an in-memory cache with a TTL.
type DirectoryCache interface {
	// Get returns the cached directory and true when present and fresh.
	Get() (*Directory, bool)

	// Set stores a directory, replacing any previous one. Last writer wins;
	// entries are immutable once stored, so concurrent refreshes are safe.
	Set(d *Directory)

	// Flush drops the cached directory.
	Flush()
}

type memoryCache struct {
	mu        sync.RWMutex
	dir       *Directory
	expiresAt time.Time
	ttl       time.Duration
}

func newMemoryCache(ttl time.Duration) *memoryCache {
	return &memoryCache{ttl: ttl}
}

func (c *memoryCache) Get() (*Directory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.dir == nil {
		return nil, false
	}
	if c.ttl > 0 && time.Now().After(c.expiresAt) {
		return nil, false
	}
	return c.dir, true
}

func (c *memoryCache) Set(d *Directory) {
	c.mu.Lock()
	c.dir = d
	c.expiresAt = time.Now().Add(c.ttl)
	c.mu.Unlock()
}

func (c *memoryCache) Flush() {
	c.mu.Lock()
	c.dir = nil
	c.mu.Unlock()
}
