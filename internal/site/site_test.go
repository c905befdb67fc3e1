package site

import "testing"

func TestSite_URL(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"", "/blog", ""},
		{"https://example.com", "/blog", "https://example.com/blog"},
		{"https://example.com/", PostPath("hello"), "https://example.com/blog/hello"},
	}
	for _, tt := range tests {
		s := Site{BaseURL: tt.base}
		if got := s.URL(tt.path); got != tt.want {
			t.Errorf("URL(%q) with base %q = %q, want %q", tt.path, tt.base, got, tt.want)
		}
	}
}
