// internal/search/cache.go
package search

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"

	"github.com/vecbridge/vecbridge/internal/vectordb"
)

// Cache memoizes loaded databases so repeated queries against the same
// source skip re-parsing. Entries are keyed by source identity (a path or a
// content hash) and invalidated explicitly. It is a memoization layer, not
// a store of record: it does not survive process restarts.
type Cache struct {
	mu  sync.RWMutex
	dbs map[string]*vectordb.Database
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{dbs: make(map[string]*vectordb.Database)}
}

// SourceKey derives a cache key from a source path, falling back to a
// content hash when no path identifies the source.
func SourceKey(path string, data []byte) string {
	if path != "" {
		return path
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached database for key, if any.
func (c *Cache) Get(key string) (*vectordb.Database, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	db, ok := c.dbs[key]
	return db, ok
}

// Put stores a database under key, replacing any previous entry.
func (c *Cache) Put(key string, db *vectordb.Database) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dbs[key] = db
}

// Invalidate removes the entry for key. Removing a missing key is a no-op.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.dbs, key)
}

// Keys returns the cached keys in sorted order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.dbs))
	for k := range c.dbs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of cached databases.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.dbs)
}
