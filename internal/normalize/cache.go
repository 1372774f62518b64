package normalize

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCacheSize = 1024

// Cache memoizes Normalize for callers that see the same programs repeatedly.
type Cache struct {
	entries *lru.Cache[string, string]
}

func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create normalize cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Normalize returns the same result as the package-level Normalize.
func (c *Cache) Normalize(text string) string {
	if out, ok := c.entries.Get(text); ok {
		return out
	}
	out := Normalize(text)
	c.entries.Add(text, out)
	return out
}

func (c *Cache) Len() int {
	return c.entries.Len()
}
