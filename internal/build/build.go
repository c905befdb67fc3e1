// Package build writes every route of the site to an output directory.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgramigna/gramigna.dev/internal/posts"
	"github.com/mgramigna/gramigna.dev/internal/render"
	"github.com/mgramigna/gramigna.dev/internal/site"
)

type Options struct {
	OutputDir string
	StaticDir string
	// ContentDir, when set, is never allowed to be the output directory.
	ContentDir string
}

type Result struct {
	Pages   []string
	Posts   []*posts.Post
	Static  int
	Catalog *posts.Catalog
}

type page struct {
	route  string
	render func(w io.Writer) error
}

type Builder struct {
	svc    *posts.Service
	pages  *render.Renderer
	opts   Options
	logger *slog.Logger
}

func NewBuilder(svc *posts.Service, pages *render.Renderer, opts Options, logger *slog.Logger) *Builder {
	return &Builder{svc: svc, pages: pages, opts: opts, logger: logger}
}

// Build loads the collection, cleans the output directory and writes all
// pages. Malformed content aborts the build before anything is removed.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	if err := b.checkOutputDir(); err != nil {
		return nil, err
	}

	catalog, err := b.svc.Reload(ctx)
	if err != nil {
		return nil, err
	}
	b.logger.Info("content loaded", "posts", catalog.Len())

	if err := os.RemoveAll(b.opts.OutputDir); err != nil {
		return nil, fmt.Errorf("clean output directory %s: %w", b.opts.OutputDir, err)
	}
	if err := os.MkdirAll(b.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", b.opts.OutputDir, err)
	}

	res := &Result{Catalog: catalog, Posts: catalog.All()}
	latest, _ := catalog.MostRecent()

	pages := []page{
		{site.PathHome, b.pages.Home},
		{site.PathProjects, b.pages.Projects},
		{site.PathBlog, func(w io.Writer) error { return b.pages.BlogIndex(w, latest) }},
		{site.PathPosts, func(w io.Writer) error { return b.pages.Posts(w, res.Posts) }},
	}
	for _, p := range res.Posts {
		pages = append(pages, page{site.PostPath(p.Slug), func(w io.Writer) error { return b.pages.Post(w, p) }})
	}

	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file := filepath.Join(b.opts.OutputDir, filepath.FromSlash(p.route), "index.html")
		if err := writePage(file, p.render); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.route, err)
		}
		res.Pages = append(res.Pages, p.route)
		b.logger.Debug("page written", "path", p.route, "file", file)
	}

	if err := writePage(filepath.Join(b.opts.OutputDir, "404.html"), b.pages.NotFound); err != nil {
		return nil, fmt.Errorf("write 404 page: %w", err)
	}

	if b.opts.StaticDir != "" {
		n, err := copyDir(b.opts.StaticDir, b.opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("copy static assets: %w", err)
		}
		res.Static = n
	}

	b.logger.Info("site built", "pages", len(res.Pages), "static_files", res.Static, "output", b.opts.OutputDir)
	return res, nil
}

func (b *Builder) checkOutputDir() error {
	out := filepath.Clean(b.opts.OutputDir)
	if b.opts.OutputDir == "" || out == "." || out == string(filepath.Separator) {
		return fmt.Errorf("refusing to use %q as output directory", b.opts.OutputDir)
	}
	for _, src := range []struct{ name, dir string }{
		{"content", b.opts.ContentDir},
		{"static", b.opts.StaticDir},
	} {
		if src.dir == "" {
			continue
		}
		overlap, err := overlaps(out, src.dir)
		if err != nil {
			return err
		}
		if overlap {
			return fmt.Errorf("output directory %q overlaps the %s directory %q", b.opts.OutputDir, src.name, src.dir)
		}
	}
	return nil
}

// overlaps reports whether a and b are the same directory or one contains
// the other.
func overlaps(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return within(absA, absB) || within(absB, absA), nil
}

func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// writePage renders into memory before touching the file so a failed render
// leaves no partial page behind.
func writePage(file string, render func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	return os.WriteFile(file, buf.Bytes(), 0o644)
}

// copyDir copies the files below src into dst and reports how many were
// copied. A missing src is not an error.
func copyDir(src, dst string) (int, error) {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	copied := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if err := copyFile(path, target); err != nil {
			return err
		}
		copied++
		return nil
	})
	return copied, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
