package events

import (
	"context"
	"log/slog"
)

var _ Publisher = (*DryRunPublisher)(nil)

// DryRunPublisher logs each event instead of sending it.
type DryRunPublisher struct {
	Logger *slog.Logger
}

func (p DryRunPublisher) PublishPostPublished(ctx context.Context, e PostPublished) error {
	if p.Logger != nil {
		p.Logger.InfoContext(ctx, "would publish",
			"event_id", e.ID,
			"type", e.Type,
			"slug", e.Payload.Slug,
			"url", e.Payload.URL,
		)
	}
	return nil
}
