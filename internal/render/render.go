// Package render composes the shared base frame with each page body.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/mgramigna/gramigna.dev/internal/posts"
	"github.com/mgramigna/gramigna.dev/internal/site"
)

//go:embed templates/*.html
var templateFS embed.FS

const baseTemplate = "base.html"

var pageTemplates = []string{
	"home.html",
	"projects.html",
	"blog.html",
	"posts.html",
	"post.html",
	"notfound.html",
}

var funcs = template.FuncMap{
	"date":     func(t time.Time) string { return t.Format("Jan 02, 2006") },
	"isodate":  func(t time.Time) string { return t.Format(time.DateOnly) },
	"postPath": site.PostPath,
	"active":   active,
}

// Page is the data every template executes against.
type Page struct {
	Site        site.Site
	Nav         []site.Link
	Path        string
	Title       string
	Description string
	Canonical   string

	Latest   *posts.Post
	Posts    []*posts.Post
	Post     *posts.Post
	Projects []site.Project
}

type Renderer struct {
	site  site.Site
	pages map[string]*template.Template
}

func New(s site.Site) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/"+baseTemplate, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{site: s, pages: pages}, nil
}

func (r *Renderer) Home(w io.Writer) error {
	return r.render(w, "home.html", r.page(site.PathHome, "", ""))
}

func (r *Renderer) Projects(w io.Writer) error {
	p := r.page(site.PathProjects, "Projects", "")
	p.Projects = r.site.Projects
	return r.render(w, "projects.html", p)
}

// BlogIndex renders the blog landing page. latest may be nil when the
// collection is empty.
func (r *Renderer) BlogIndex(w io.Writer, latest *posts.Post) error {
	p := r.page(site.PathBlog, "Blog", "")
	p.Latest = latest
	return r.render(w, "blog.html", p)
}

func (r *Renderer) Posts(w io.Writer, list []*posts.Post) error {
	p := r.page(site.PathPosts, "All posts", "")
	p.Posts = list
	return r.render(w, "posts.html", p)
}

func (r *Renderer) Post(w io.Writer, post *posts.Post) error {
	p := r.page(site.PostPath(post.Slug), post.Title, post.Description)
	p.Post = post
	return r.render(w, "post.html", p)
}

func (r *Renderer) NotFound(w io.Writer) error {
	p := r.page("", "Page not found", "")
	return r.render(w, "notfound.html", p)
}

// page fills in the base frame, falling back to the site title and
// description when the page does not set its own.
func (r *Renderer) page(path, title, description string) Page {
	if title == "" {
		title = r.site.Title
	}
	if description == "" {
		description = r.site.Description
	}
	p := Page{
		Site:        r.site,
		Nav:         site.Nav,
		Path:        path,
		Title:       title,
		Description: description,
	}
	if path != "" {
		p.Canonical = r.site.URL(path)
	}
	return p
}

func (r *Renderer) render(w io.Writer, name string, p Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}
	if err := tmpl.ExecuteTemplate(w, baseTemplate, p); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	return nil
}

func active(current, href string) bool {
	if href == site.PathHome {
		return current == site.PathHome
	}
	return current == href || strings.HasPrefix(current, href+"/")
}
