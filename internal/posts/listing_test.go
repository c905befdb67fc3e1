package posts

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(slug string, pub time.Time) *Post {
	return &Post{Slug: slug, Title: slug, PubDate: pub}
}

func slugs(posts []*Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func TestSort_NewestFirst(t *testing.T) {
	collection := []*Post{
		post("trivia-game", date(2024, time.March, 23)),
		post("tauri-types", date(2024, time.April, 23)),
		post("drizzle-notes", date(2024, time.March, 30)),
	}

	ordered := Sort(collection)

	assert.Equal(t, []string{"tauri-types", "drizzle-notes", "trivia-game"}, slugs(ordered))
	assert.Equal(t, "trivia-game", collection[0].Slug, "input must not be reordered")

	head, ok := MostRecent(ordered)
	require.True(t, ok)
	assert.Equal(t, date(2024, time.April, 23), head.PubDate)
}

func TestSort_TieBreakIsDeterministic(t *testing.T) {
	day := date(2024, time.March, 30)
	collection := []*Post{
		post("c", day),
		post("a", day),
		post("newer", date(2024, time.May, 1)),
		post("b", day),
	}
	want := []string{"newer", "a", "b", "c"}

	rng := rand.New(rand.NewSource(1))
	for range 20 {
		rng.Shuffle(len(collection), func(i, j int) {
			collection[i], collection[j] = collection[j], collection[i]
		})
		assert.Equal(t, want, slugs(Sort(collection)))
	}
}

func TestSort_NonIncreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := date(2020, time.January, 1)
	var collection []*Post
	for i := 0; i < 100; i++ {
		collection = append(collection, post(fmt.Sprintf("post-%03d", i), base.AddDate(0, 0, rng.Intn(30))))
	}

	ordered := Sort(collection)
	require.Len(t, ordered, len(collection))
	for i := 1; i < len(ordered); i++ {
		assert.False(t, ordered[i].PubDate.After(ordered[i-1].PubDate), "position %d is newer than %d", i, i-1)
	}
}

func TestMostRecent_Empty(t *testing.T) {
	head, ok := MostRecent(Sort(nil))
	assert.False(t, ok)
	assert.Nil(t, head)
}

func TestCatalog(t *testing.T) {
	c := NewCatalog([]*Post{
		post("older", date(2024, time.March, 23)),
		post("newer", date(2024, time.April, 23)),
	})

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"newer", "older"}, slugs(c.All()))

	got, err := c.BySlug("older")
	require.NoError(t, err)
	assert.Equal(t, "older", got.Slug)

	_, err = c.BySlug("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	all := c.All()
	all[0] = nil
	assert.NotNil(t, c.All()[0], "All must return a copy")
}

func TestCatalog_Empty(t *testing.T) {
	c := NewCatalog(nil)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.All())
	_, ok := c.MostRecent()
	assert.False(t, ok)
}
