package posts

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"path"
	"strings"

	"github.com/mgramigna/gramigna.dev/internal/storage"
)

type Repository interface {
	// List returns every post of the collection, in no particular order.
	List(ctx context.Context, collection string) ([]*Post, error)
}

type BodyRenderer interface {
	Render(src []byte) (template.HTML, error)
}

var _ Repository = (*storageRepository)(nil)

type storageRepository struct {
	store storage.Storage
	body  BodyRenderer
}

func NewStorageRepository(store storage.Storage, body BodyRenderer) Repository {
	return &storageRepository{store: store, body: body}
}

func (r *storageRepository) List(ctx context.Context, collection string) ([]*Post, error) {
	keys, err := r.store.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	bySlug := make(map[string]string, len(keys))
	posts := make([]*Post, 0, len(keys))
	for _, key := range keys {
		slug, ok := slugFor(collection, key)
		if !ok {
			continue
		}
		if other, dup := bySlug[slug]; dup {
			return nil, fmt.Errorf("%s and %s: %w %q", other, key, ErrDuplicateSlug, slug)
		}
		bySlug[slug] = key

		post, err := r.load(ctx, key, slug)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *storageRepository) load(ctx context.Context, key, slug string) (*Post, error) {
	rc, err := r.store.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	src, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	post, body, err := Parse(key, slug, src)
	if err != nil {
		return nil, err
	}
	post.Body, err = r.body.Render(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return post, nil
}

// slugFor derives a post slug from its key: the path below the collection
// without the markdown extension, lower-cased.
func slugFor(collection, key string) (string, bool) {
	ext := path.Ext(key)
	if ext != ".md" && ext != ".markdown" {
		return "", false
	}
	rel := strings.TrimPrefix(key, strings.Trim(collection, "/")+"/")
	return strings.ToLower(strings.TrimSuffix(rel, ext)), true
}
