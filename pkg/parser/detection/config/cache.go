package config

import (
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Cache remembers marker lookups per workspace root. An empty value records
// a lookup that found nothing.
type Cache struct {
	mu    sync.RWMutex
	items map[uint64]string
}

func NewCache() *Cache {
	return &Cache{
		items: make(map[uint64]string),
	}
}

func (c *Cache) Get(root string, markers []string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[cacheKey(root, markers)]
	return val, ok
}

func (c *Cache) Set(root string, markers []string, markerPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[cacheKey(root, markers)] = markerPath
}

// cacheKey is independent of marker order.
func cacheKey(root string, markers []string) uint64 {
	sorted := make([]string, len(markers))
	copy(sorted, markers)
	sort.Strings(sorted)

	d := xxhash.New()
	_, _ = d.WriteString(root)
	for _, m := range sorted {
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(m)
	}
	return d.Sum64()
}
