package events

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/mgramigna/gramigna.dev/internal/ledger"
	"github.com/mgramigna/gramigna.dev/internal/posts"
)

// Announcer publishes a post.published event for every post the ledger has
// not seen yet.
type Announcer struct {
	ledger    ledger.Ledger
	publisher Publisher
	urlFor    func(slug string) string
	logger    *slog.Logger
}

func NewAnnouncer(l ledger.Ledger, p Publisher, urlFor func(slug string) string, logger *slog.Logger) *Announcer {
	return &Announcer{ledger: l, publisher: p, urlFor: urlFor, logger: logger}
}

// Announce walks a newest-first listing oldest first and returns the number
// of posts announced. A post is recorded only after its event is published.
func (a *Announcer) Announce(ctx context.Context, listing []*posts.Post) (int, error) {
	announced := 0
	for _, p := range slices.Backward(listing) {
		seen, err := a.ledger.Has(ctx, p.Slug)
		if err != nil {
			return announced, err
		}
		if seen {
			continue
		}

		e := NewPostPublished(PostPublishedPayload{
			Slug:        p.Slug,
			Title:       p.Title,
			Description: p.Description,
			PubDate:     p.PubDate,
			URL:         a.urlFor(p.Slug),
		})
		if err := a.publisher.PublishPostPublished(ctx, e); err != nil {
			return announced, fmt.Errorf("announce %s: %w", p.Slug, err)
		}
		if err := a.ledger.Record(ctx, ledger.Entry{
			Slug:        p.Slug,
			Title:       p.Title,
			PubDate:     p.PubDate,
			AnnouncedAt: time.Now().UTC(),
		}); err != nil {
			return announced, err
		}
		a.logger.Info("post announced", "slug", p.Slug, "event_id", e.ID)
		announced++
	}
	return announced, nil
}
