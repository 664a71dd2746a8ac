package gofront

import (
	"go/importer"
	"go/token"
	"go/types"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of imported packages kept in memory.
const DefaultCacheSize = 128

// CacheStats is a point-in-time view of an ImportCache.
type CacheStats struct {
	Hits   int
	Misses int
	Len    int
}

// ImportCache is a goroutine-safe, size-bounded importer. Imported packages
// are immutable once complete and are shared by every unit that asks for
// them.
type ImportCache struct {
	mu     sync.Mutex // base importers are not safe for concurrent use
	base   types.Importer
	cache  *lru.Cache[string, *types.Package]
	hits   int
	misses int
}

// NewImportCache wraps base in an LRU of the given size. A nil base loads
// packages from source; size <= 0 means DefaultCacheSize.
func NewImportCache(size int, base types.Importer) *ImportCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if base == nil {
		base = importer.ForCompiler(token.NewFileSet(), "source", nil)
	}
	cache, err := lru.New[string, *types.Package](size)
	if err != nil {
		// lru.New fails only for non-positive sizes
		panic(err)
	}
	return &ImportCache{base: base, cache: cache}
}

// Import implements types.Importer. Failed imports are not cached.
func (c *ImportCache) Import(path string) (*types.Package, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pkg, ok := c.cache.Get(path); ok {
		c.hits++
		return pkg, nil
	}
	c.misses++
	pkg, err := c.base.Import(path)
	if err != nil {
		return nil, err
	}
	c.cache.Add(path, pkg)
	return pkg, nil
}

func (c *ImportCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Len: c.cache.Len()}
}

// Purge drops every cached package.
func (c *ImportCache) Purge() {
	c.mu.Lock()
	c.cache.Purge()
	c.mu.Unlock()
}
