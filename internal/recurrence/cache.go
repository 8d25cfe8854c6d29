package recurrence

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

const DefaultCacheSize = 256

// Cache memoizes parsed rules by their text. Safe for concurrent use.
type Cache struct {
	rules *lru.Cache
}

func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating rule cache: %w", err)
	}
	return &Cache{rules: c}, nil
}

// Parse returns the cached rule for text, parsing and storing it on a miss.
// Parse failures are not cached.
func (c *Cache) Parse(text string) (Rule, error) {
	if v, ok := c.rules.Get(text); ok {
		if r, ok := v.(Rule); ok {
			return r, nil
		}
	}
	r, err := Parse(text)
	if err != nil {
		return Rule{}, err
	}
	c.rules.Add(text, r)
	return r, nil
}

func (c *Cache) Len() int {
	return c.rules.Len()
}
