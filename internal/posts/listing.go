package posts

import (
	"slices"
	"strings"
)

// Sort returns the posts ordered by publish date, newest first. Posts sharing
// a publish date are ordered by slug so the result is reproducible.
func Sort(posts []*Post) []*Post {
	ordered := slices.Clone(posts)
	slices.SortFunc(ordered, func(a, b *Post) int {
		if c := b.PubDate.Compare(a.PubDate); c != 0 {
			return c
		}
		return strings.Compare(a.Slug, b.Slug)
	})
	return ordered
}

// MostRecent returns the head of an ordered listing, or false when there
// are no posts.
func MostRecent(ordered []*Post) (*Post, bool) {
	if len(ordered) == 0 {
		return nil, false
	}
	return ordered[0], true
}
