package build

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mgramigna/gramigna.dev/internal/posts"
	"github.com/mgramigna/gramigna.dev/internal/render"
	"github.com/mgramigna/gramigna.dev/internal/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	list func(ctx context.Context, collection string) ([]*posts.Post, error)
}

func (m *mockRepo) List(ctx context.Context, collection string) ([]*posts.Post, error) {
	return m.list(ctx, collection)
}

func fixedRepo(list []*posts.Post, err error) *mockRepo {
	return &mockRepo{list: func(context.Context, string) ([]*posts.Post, error) { return list, err }}
}

func newBuilder(t *testing.T, repo posts.Repository, opts Options) *Builder {
	t.Helper()
	pages, err := render.New(site.Default())
	require.NoError(t, err)
	return NewBuilder(posts.NewService(repo, "blog"), pages, opts, slog.Default())
}

func TestBuilder_Build(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	static := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(static, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "images", "hero.png"), []byte("png"), 0o644))
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "stale.html"), []byte("old"), 0o644))

	list := []*posts.Post{
		{Slug: "first", Title: "First", PubDate: time.Date(2024, time.March, 23, 0, 0, 0, 0, time.UTC), Body: "<p>one</p>"},
		{Slug: "second", Title: "Second", PubDate: time.Date(2024, time.April, 23, 0, 0, 0, 0, time.UTC), Body: "<p>two</p>"},
	}
	b := newBuilder(t, fixedRepo(list, nil), Options{OutputDir: out, StaticDir: static})

	res, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"/", "/projects", "/blog", "/blog/posts", "/blog/second", "/blog/first"}, res.Pages)
	assert.Equal(t, 1, res.Static)
	for _, f := range []string{
		"index.html",
		"projects/index.html",
		"blog/index.html",
		"blog/posts/index.html",
		"blog/first/index.html",
		"blog/second/index.html",
		"404.html",
		"images/hero.png",
	} {
		assert.FileExists(t, filepath.Join(out, f))
	}
	assert.NoFileExists(t, filepath.Join(out, "stale.html"))

	blog, err := os.ReadFile(filepath.Join(out, "blog", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(blog), `<a href="/blog/second">Second</a>`)

	post, err := os.ReadFile(filepath.Join(out, "blog", "first", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(post), "<p>one</p>")
}

func TestBuilder_EmptyCollection(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	b := newBuilder(t, fixedRepo(nil, nil), Options{OutputDir: out, StaticDir: filepath.Join(t.TempDir(), "missing")})

	res, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Pages, 4)

	blog, err := os.ReadFile(filepath.Join(out, "blog", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(blog), "No posts yet.")
}

func TestBuilder_InvalidContentLeavesOutputAlone(t *testing.T) {
	out := t.TempDir()
	keep := filepath.Join(out, "index.html")
	require.NoError(t, os.WriteFile(keep, []byte("previous build"), 0o644))

	invalid := &posts.ValidationError{Key: "blog/bad.md", Fields: map[string]string{"title": "required"}}
	b := newBuilder(t, fixedRepo(nil, invalid), Options{OutputDir: out})

	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, posts.ErrInvalidFrontMatter))
	assert.Contains(t, err.Error(), "blog/bad.md")
	assert.FileExists(t, keep)
}

func TestBuilder_RefusesDangerousOutputDir(t *testing.T) {
	root := t.TempDir()
	content := filepath.Join(root, "content")
	static := filepath.Join(root, "public")
	for _, opts := range []Options{
		{OutputDir: ""},
		{OutputDir: "."},
		{OutputDir: "/"},
		{OutputDir: content, ContentDir: content},
		{OutputDir: root, ContentDir: content},
		{OutputDir: filepath.Join(content, "dist"), ContentDir: content},
		{OutputDir: static, StaticDir: static},
		{OutputDir: root, StaticDir: static},
		{OutputDir: filepath.Join(static, "dist"), StaticDir: static},
	} {
		b := newBuilder(t, fixedRepo(nil, nil), opts)
		_, err := b.Build(context.Background())
		assert.Error(t, err, "output dir %q", opts.OutputDir)
	}
}

func TestBuilder_OverlapLeavesSourcesIntact(t *testing.T) {
	root := t.TempDir()
	content := filepath.Join(root, "content")
	static := filepath.Join(root, "public")
	post := filepath.Join(content, "blog", "first.md")
	asset := filepath.Join(static, "robots.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(post), 0o755))
	require.NoError(t, os.WriteFile(post, []byte("---\ntitle: First\n---\n"), 0o644))
	require.NoError(t, os.MkdirAll(static, 0o755))
	require.NoError(t, os.WriteFile(asset, []byte("User-agent: *"), 0o644))

	for _, opts := range []Options{
		{OutputDir: root, ContentDir: content, StaticDir: static},
		{OutputDir: static, ContentDir: content, StaticDir: static},
	} {
		_, err := newBuilder(t, fixedRepo(nil, nil), opts).Build(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "overlaps")
		assert.FileExists(t, post)
		assert.FileExists(t, asset)
	}
}
