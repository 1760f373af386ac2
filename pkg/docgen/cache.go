package docgen

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of cached generations.
const DefaultCacheSize = 256

// CachingGenerator memoizes successful generations of another Generator.
// Failures are never cached.
type CachingGenerator struct {
	next  Generator
	cache *lru.Cache[uint64, string]
}

// NewCachingGenerator wraps next with an LRU of the given size.
// A size of zero or less uses DefaultCacheSize.
func NewCachingGenerator(next Generator, size int) (*CachingGenerator, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[uint64, string](size)
	if err != nil {
		return nil, fmt.Errorf("create generation cache: %w", err)
	}
	return &CachingGenerator{next: next, cache: cache}, nil
}

func (c *CachingGenerator) GenerateDocumentation(ctx context.Context, req DocRequest) (string, error) {
	key := cacheKey(OpGenerateDocumentation, req.Symbol, req.Method, req.URL, req.Body)
	if text, ok := c.cache.Get(key); ok {
		return text, nil
	}
	text, err := c.next.GenerateDocumentation(ctx, req)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, text)
	return text, nil
}

func (c *CachingGenerator) ConvertCode(ctx context.Context, source, targetLanguage string) (string, error) {
	key := cacheKey(OpConvertCode, targetLanguage, source)
	if text, ok := c.cache.Get(key); ok {
		return text, nil
	}
	text, err := c.next.ConvertCode(ctx, source, targetLanguage)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, text)
	return text, nil
}

// Len returns the number of cached generations.
func (c *CachingGenerator) Len() int {
	return c.cache.Len()
}

// Purge drops every cached generation.
func (c *CachingGenerator) Purge() {
	c.cache.Purge()
}

func cacheKey(parts ...string) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
