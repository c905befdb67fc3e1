package posts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("post not found")
	ErrInvalidFrontMatter = errors.New("invalid front-matter")
	ErrDuplicateSlug      = errors.New("duplicate slug")
)

// ValidationError reports why a document in the content store could not be
// turned into a Post. Fields maps front-matter keys to the problem found.
type ValidationError struct {
	Key    string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return fmt.Sprintf("%s: %v: %s", e.Key, ErrInvalidFrontMatter, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidFrontMatter
}
