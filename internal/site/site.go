// Package site holds the site-wide defaults shared by every page.
package site

import "strings"

const (
	Title       = "gramigna.dev"
	Description = "Software engineering notes, side projects, and the occasional deep dive into type safety."
	Intro       = "I build web applications and developer tooling, mostly in TypeScript. This is where I write about the projects I work on and the things I learn along the way."
)

const (
	PathHome     = "/"
	PathProjects = "/projects"
	PathBlog     = "/blog"
	PathPosts    = "/blog/posts"
)

func PostPath(slug string) string {
	return PathBlog + "/" + slug
}

type Link struct {
	Href  string
	Label string
}

// Nav is rendered by every page in the same order.
var Nav = []Link{
	{Href: PathHome, Label: "Home"},
	{Href: PathProjects, Label: "Projects"},
	{Href: PathBlog, Label: "Blog"},
}

type Project struct {
	Name        string   `mapstructure:"name"`
	Description string   `mapstructure:"description"`
	Href        string   `mapstructure:"href"`
	Tags        []string `mapstructure:"tags"`
}

type Site struct {
	Title       string    `mapstructure:"title"`
	Description string    `mapstructure:"description"`
	BaseURL     string    `mapstructure:"base_url"`
	Intro       string    `mapstructure:"intro"`
	Projects    []Project `mapstructure:"projects"`
}

func Default() Site {
	return Site{
		Title:       Title,
		Description: Description,
		Intro:       Intro,
	}
}

// URL joins p onto the base URL. It returns "" when no base URL is set.
func (s Site) URL(p string) string {
	if s.BaseURL == "" {
		return ""
	}
	return strings.TrimSuffix(s.BaseURL, "/") + p
}
