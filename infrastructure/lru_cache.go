package infrastructure

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUArtifactCache is a bounded in-memory domain.ArtifactCache.
type LRUArtifactCache struct {
	cache *lru.Cache[string, string]
}

// NewLRUArtifactCache creates a cache holding up to size artifacts.
func NewLRUArtifactCache(size int) (*LRUArtifactCache, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &LRUArtifactCache{cache: cache}, nil
}

// Get implements domain.ArtifactCache.
func (c *LRUArtifactCache) Get(key string) (string, bool) {
	return c.cache.Get(key)
}

// Add implements domain.ArtifactCache.
func (c *LRUArtifactCache) Add(key, artifact string) {
	c.cache.Add(key, artifact)
}

// Len reports the number of cached artifacts.
func (c *LRUArtifactCache) Len() int {
	return c.cache.Len()
}
