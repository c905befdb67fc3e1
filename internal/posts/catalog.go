package posts

import (
	"slices"
	"time"
)

// Catalog is an immutable, ordered snapshot of a collection.
type Catalog struct {
	ordered  []*Post
	bySlug   map[string]*Post
	loadedAt time.Time
}

func NewCatalog(collection []*Post) *Catalog {
	c := &Catalog{
		ordered:  Sort(collection),
		bySlug:   make(map[string]*Post, len(collection)),
		loadedAt: time.Now().UTC(),
	}
	for _, p := range c.ordered {
		c.bySlug[p.Slug] = p
	}
	return c
}

// All returns the full listing, newest first.
func (c *Catalog) All() []*Post {
	return slices.Clone(c.ordered)
}

func (c *Catalog) MostRecent() (*Post, bool) {
	return MostRecent(c.ordered)
}

func (c *Catalog) BySlug(slug string) (*Post, error) {
	p, ok := c.bySlug[slug]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (c *Catalog) Len() int {
	return len(c.ordered)
}

func (c *Catalog) LoadedAt() time.Time {
	return c.loadedAt
}
