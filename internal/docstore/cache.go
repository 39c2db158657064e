package docstore

import (
	"context"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedSearcher wraps a Searcher with an LRU cache over search results
// and a memoized resource universe. A pipeline run hits the same resource
// several times (schema assembly, generation context), so repeated remote
// queries are wasted work. The corpus is read-only, so entries never
// become stale within a process lifetime.
type CachedSearcher struct {
	inner Searcher
	cache *lru.Cache[string, []Chunk]

	mu        sync.Mutex
	resources []string
}

// NewCachedSearcher wraps inner with a cache of up to size search results.
// Sizes below 1 fall back to a small default.
func NewCachedSearcher(inner Searcher, size int) *CachedSearcher {
	if size <= 0 {
		size = 64
	}
	// lru.New only fails on a non-positive size, which is clamped above.
	cache, _ := lru.New[string, []Chunk](size)
	return &CachedSearcher{inner: inner, cache: cache}
}

// Search returns cached chunks when the same query and limit were seen
// before, otherwise delegates to the wrapped Searcher.
func (c *CachedSearcher) Search(ctx context.Context, query string, topK int) ([]Chunk, error) {
	key := searchKey(query, topK)
	if chunks, ok := c.cache.Get(key); ok {
		return chunks, nil
	}
	chunks, err := c.inner.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, chunks)
	return chunks, nil
}

// Resources memoizes the identifier universe after the first call.
func (c *CachedSearcher) Resources(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resources != nil {
		return c.resources, nil
	}
	names, err := c.inner.Resources(ctx)
	if err != nil {
		return nil, err
	}
	c.resources = names
	return names, nil
}

func searchKey(query string, topK int) string {
	// topK is part of the key; a truncated result must not satisfy a
	// broader request.
	return query + "\x00" + strconv.Itoa(topK)
}
