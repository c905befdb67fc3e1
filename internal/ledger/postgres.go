package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

var _ Ledger = (*PostgresLedger)(nil)

const schema = `CREATE TABLE IF NOT EXISTS announced_posts (
	slug         TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	pub_date     TIMESTAMPTZ NOT NULL,
	announced_at TIMESTAMPTZ NOT NULL
)`

type PostgresLedger struct {
	db *sql.DB
}

// Open connects to Postgres through lib/pq and makes sure the ledger table
// exists.
func Open(ctx context.Context, databaseURL string) (*PostgresLedger, *sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	l := NewPostgresLedger(db)
	if err := l.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return l, db, nil
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create announced_posts: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Has(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := l.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM announced_posts WHERE slug = $1)", slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", slug, err)
	}
	return exists, nil
}

func (l *PostgresLedger) Record(ctx context.Context, e Entry) error {
	if e.AnnouncedAt.IsZero() {
		e.AnnouncedAt = time.Now().UTC()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO announced_posts (slug, title, pub_date, announced_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO NOTHING`,
		e.Slug, e.Title, e.PubDate, e.AnnouncedAt,
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", e.Slug, err)
	}
	return nil
}
