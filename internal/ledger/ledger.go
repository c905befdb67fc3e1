// Package ledger remembers which posts have already been announced.
package ledger

import (
	"context"
	"time"
)

type Entry struct {
	Slug        string
	Title       string
	PubDate     time.Time
	AnnouncedAt time.Time
}

type Ledger interface {
	Has(ctx context.Context, slug string) (bool, error)
	Record(ctx context.Context, e Entry) error
}
