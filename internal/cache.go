package internal

import (
	"crypto/md5"
	"fmt"
	"sync"
	"time"
)

// CacheEntry is the last result seen for a file.
type CacheEntry struct {
	Hash      string
	Result    *Result
	CreatedAt time.Time
}

// Cache remembers the last result per file, keyed by a hash of the content
// that produced it. It is safe for concurrent use.
type Cache struct {
	mutex   sync.RWMutex
	entries map[string]CacheEntry
	maxAge  time.Duration
}

// NewCache creates a cache. Entries older than maxAge are dropped; a zero
// maxAge keeps them until invalidated.
func NewCache(maxAge time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]CacheEntry),
		maxAge:  maxAge,
	}
}

// Get returns the cached result for filename when it was produced from
// the same content.
func (c *Cache) Get(filename string, content []byte) (*Result, bool) {
	c.mutex.RLock()
	entry, exists := c.entries[filename]
	c.mutex.RUnlock()
	if !exists {
		return nil, false
	}

	if c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge {
		c.Invalidate(filename)
		return nil, false
	}
	if entry.Hash != contentHash(content) {
		return nil, false
	}
	return entry.Result, true
}

// Set records res as the result of content.
func (c *Cache) Set(filename string, content []byte, res *Result) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[filename] = CacheEntry{
		Hash:      contentHash(content),
		Result:    res,
		CreatedAt: time.Now(),
	}
}

func (c *Cache) Invalidate(filename string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.entries, filename)
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries = make(map[string]CacheEntry)
}

func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

func contentHash(content []byte) string {
	return fmt.Sprintf("%x", md5.Sum(content))
}
