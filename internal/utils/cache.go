package utils

import (
	"os"
	"sync"
	"time"
)

// fingerprint identifies one version of a file on disk
type fingerprint struct {
	modTime time.Time
	size    int64
}

func fingerprintOf(path string) (fingerprint, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return fingerprint{}, err
	}
	return fingerprint{modTime: stat.ModTime(), size: stat.Size()}, nil
}

type cacheEntry[V any] struct {
	value V
	file  string
	stamp fingerprint
}

// CacheStats counts lookups against a cache
type CacheStats struct {
	Size   int
	Hits   int
	Misses int
}

// Cache is a concurrency-safe map whose entries may be tied to a file.
// A file-backed entry is dropped on lookup once the file changes.
type Cache[K comparable, V any] struct {
	mutex  sync.RWMutex
	items  map[K]*cacheEntry[V]
	hits   int
	misses int
}

// NewCache creates a new generic cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{items: make(map[K]*cacheEntry[V])}
}

// Get retrieves an item without checking its file
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if item, ok := c.items[key]; ok {
		return item.value, true
	}
	var zero V
	return zero, false
}

// Lookup retrieves an item whose file has not changed since it was stored.
// A stale or unreadable entry is removed.
func (c *Cache[K, V]) Lookup(key K) (V, bool) {
	c.mutex.RLock()
	item, ok := c.items[key]
	c.mutex.RUnlock()

	var zero V
	if ok && item.file != "" {
		current, err := fingerprintOf(item.file)
		if err != nil || !current.modTime.Equal(item.stamp.modTime) || current.size != item.stamp.size {
			c.Delete(key)
			ok = false
		}
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if !ok {
		c.misses++
		return zero, false
	}
	c.hits++
	return item.value, true
}

// Set stores an item that never goes stale
func (c *Cache[K, V]) Set(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items[key] = &cacheEntry[V]{value: value}
}

// SetForFile stores an item valid for the current version of path
func (c *Cache[K, V]) SetForFile(key K, value V, path string) error {
	stamp, err := fingerprintOf(path)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items[key] = &cacheEntry[V]{value: value, file: path, stamp: stamp}
	return nil
}

// Delete removes an item from the cache
func (c *Cache[K, V]) Delete(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.items, key)
}

// Clear removes all items and resets the counters
func (c *Cache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items = make(map[K]*cacheEntry[V])
	c.hits, c.misses = 0, 0
}

// Size returns the number of items in the cache
func (c *Cache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}

// Keys returns all keys in the cache in no particular order
func (c *Cache[K, V]) Keys() []K {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	keys := make([]K, 0, len(c.items))
	for key := range c.items {
		keys = append(keys, key)
	}
	return keys
}

// Stats returns the size and lookup counters
func (c *Cache[K, V]) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return CacheStats{Size: len(c.items), Hits: c.hits, Misses: c.misses}
}
