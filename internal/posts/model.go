package posts

import (
	"html/template"
	"time"
)

type Post struct {
	Slug        string
	Title       string
	Description string
	PubDate     time.Time
	UpdatedDate *time.Time
	HeroImage   string
	Body        template.HTML
	// Key is the content store key the post was read from.
	Key string
}

func (p *Post) Updated() bool {
	return p.UpdatedDate != nil
}
