// Package markdown turns post bodies into HTML.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New returns a GFM renderer that passes raw HTML in the source through.
// With sanitize set, the output is filtered by a user-generated-content
// policy that keeps harmless inline markup such as <mark> and strips
// anything executable.
func New(sanitize bool) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Typographer),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
	if sanitize {
		r.policy = bluemonday.UGCPolicy()
	}
	return r
}

func (r *Renderer) Render(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	if r.policy != nil {
		return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
	}
	return template.HTML(buf.String()), nil
}
