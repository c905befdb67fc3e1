package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mgramigna/gramigna.dev/internal/posts"
	"github.com/mgramigna/gramigna.dev/internal/render"
)

type PagesHandler struct {
	svc       *posts.Service
	pages     *render.Renderer
	staticDir string
	logger    *slog.Logger
}

func NewPagesHandler(svc *posts.Service, pages *render.Renderer, staticDir string, logger *slog.Logger) *PagesHandler {
	return &PagesHandler{
		svc:       svc,
		pages:     pages,
		staticDir: staticDir,
		logger:    logger,
	}
}

// Register mounts every page route on mux.
func (h *PagesHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Home())
	mux.HandleFunc("GET /projects", h.Projects())
	mux.HandleFunc("GET /projects/{$}", h.Projects())
	mux.HandleFunc("GET /blog", h.BlogIndex())
	mux.HandleFunc("GET /blog/posts", h.Posts())
	mux.HandleFunc("GET /blog/{slug...}", h.Post())
	mux.HandleFunc("GET /", h.Fallback())
}

func (h *PagesHandler) Home() http.HandlerFunc {
	return h.page(func(w io.Writer, _ *http.Request) error {
		return h.pages.Home(w)
	})
}

func (h *PagesHandler) Projects() http.HandlerFunc {
	return h.page(func(w io.Writer, _ *http.Request) error {
		return h.pages.Projects(w)
	})
}

func (h *PagesHandler) BlogIndex() http.HandlerFunc {
	return h.page(func(w io.Writer, _ *http.Request) error {
		latest, _ := h.svc.MostRecent()
		return h.pages.BlogIndex(w, latest)
	})
}

func (h *PagesHandler) Posts() http.HandlerFunc {
	return h.page(func(w io.Writer, _ *http.Request) error {
		return h.pages.Posts(w, h.svc.ListPosts())
	})
}

func (h *PagesHandler) Post() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSuffix(r.PathValue("slug"), "/")
		switch slug {
		case "":
			h.BlogIndex()(w, r)
			return
		case "posts":
			h.Posts()(w, r)
			return
		}
		post, err := h.svc.GetPostBySlug(slug)
		if err != nil {
			if errors.Is(err, posts.ErrNotFound) {
				h.notFound(w, r)
				return
			}
			h.logger.Error("get post failed", "slug", slug, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		var buf bytes.Buffer
		if err := h.pages.Post(&buf, post); err != nil {
			h.logger.Error("render post failed", "slug", slug, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		writeHTML(w, http.StatusOK, &buf)
	}
}

// Fallback serves files from the static directory and the not-found page for
// everything else.
func (h *PagesHandler) Fallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.staticDir != "" {
			name := filepath.Join(h.staticDir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
			if info, err := os.Stat(name); err == nil && !info.IsDir() {
				http.ServeFile(w, r, name)
				return
			}
		}
		h.notFound(w, r)
	}
}

func (h *PagesHandler) notFound(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.pages.NotFound(&buf); err != nil {
		h.logger.Error("render not found page failed", "path", r.URL.Path, "error", err)
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusNotFound, &buf)
}

// page renders into a buffer first so a template failure becomes a 500
// instead of a truncated 200.
func (h *PagesHandler) page(fn func(w io.Writer, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := fn(&buf, r); err != nil {
			h.logger.Error("render page failed", "path", r.URL.Path, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		writeHTML(w, http.StatusOK, &buf)
	}
}
