package posts

import (
	"context"
	"fmt"
	"sync/atomic"
)

type Service struct {
	repo       Repository
	collection string
	catalog    atomic.Pointer[Catalog]
}

func NewService(repo Repository, collection string) *Service {
	s := &Service{repo: repo, collection: collection}
	s.catalog.Store(NewCatalog(nil))
	return s
}

// Reload reads the collection and swaps in a new catalog. On failure the
// previous catalog stays in place.
func (s *Service) Reload(ctx context.Context) (*Catalog, error) {
	collection, err := s.repo.List(ctx, s.collection)
	if err != nil {
		contentReloadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load %s collection: %w", s.collection, err)
	}
	c := NewCatalog(collection)
	s.catalog.Store(c)
	contentReloadsTotal.WithLabelValues("ok").Inc()
	postsLoaded.Set(float64(c.Len()))
	return c, nil
}

func (s *Service) Catalog() *Catalog {
	return s.catalog.Load()
}

func (s *Service) GetPostBySlug(slug string) (*Post, error) {
	return s.Catalog().BySlug(slug)
}

func (s *Service) ListPosts() []*Post {
	return s.Catalog().All()
}

func (s *Service) MostRecent() (*Post, bool) {
	return s.Catalog().MostRecent()
}

func (s *Service) Collection() string {
	return s.collection
}
