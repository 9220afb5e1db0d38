package utils

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheBasicOperations(t *testing.T) {
	cache := NewCache[string, int]()

	cache.Set("key1", 42)
	value, ok := cache.Get("key1")
	require.True(t, ok)
	assert.Equal(t, 42, value)

	_, ok = cache.Get("missing")
	assert.False(t, ok)

	cache.Delete("key1")
	_, ok = cache.Get("key1")
	assert.False(t, ok)
}

func TestCacheKeysAndClear(t *testing.T) {
	cache := NewCache[string, string]()
	cache.Set("b", "2")
	cache.Set("a", "1")

	keys := cache.Keys()
	sort.Strings(keys)
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Equal(t, 2, cache.Size())

	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}

func TestCacheLookupInvalidatesChangedFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Service.swift")
	require.NoError(t, os.WriteFile(path, []byte("protocol A {}"), 0o644))

	cache := NewCache[string, string]()
	require.NoError(t, cache.SetForFile(path, "parsed", path))

	value, ok := cache.Lookup(path)
	require.True(t, ok)
	assert.Equal(t, "parsed", value)

	require.NoError(t, os.WriteFile(path, []byte("protocol A { func b() }"), 0o644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	_, ok = cache.Lookup(path)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Size())
	assert.Equal(t, CacheStats{Size: 0, Hits: 1, Misses: 1}, cache.Stats())
}

func TestCacheLookupWithoutFile(t *testing.T) {
	cache := NewCache[int, string]()
	cache.Set(1, "static")

	value, ok := cache.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "static", value)
}

func TestCacheSetForMissingFile(t *testing.T) {
	cache := NewCache[string, int]()
	assert.Error(t, cache.SetForFile("k", 1, filepath.Join(t.TempDir(), "missing.swift")))
	assert.Equal(t, 0, cache.Size())
}
