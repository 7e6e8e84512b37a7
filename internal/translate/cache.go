package translate

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes successful translations keyed by the raw SQL text.
// Translations are immutable, so cached values are shared between callers.
// Failed translations are not cached; they are cheap to recompute.
type Cache struct {
	entries *lru.Cache[string, *Translation]
}

// NewCache builds a cache holding up to size translations.
func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[string, *Translation](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Translate returns the cached translation for sql, translating on a miss.
func (c *Cache) Translate(sql string) (*Translation, error) {
	if tr, ok := c.entries.Get(sql); ok {
		return tr, nil
	}
	tr, err := Translate(sql)
	if err != nil {
		return nil, err
	}
	c.entries.Add(sql, tr)
	return tr, nil
}

// Len reports how many translations are cached.
func (c *Cache) Len() int {
	return c.entries.Len()
}
