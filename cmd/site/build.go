package main

import (
	"context"
	"fmt"

	"github.com/mgramigna/gramigna.dev/internal/build"
	"github.com/mgramigna/gramigna.dev/internal/config"
	"github.com/mgramigna/gramigna.dev/internal/events"
	"github.com/mgramigna/gramigna.dev/internal/ledger"
	"github.com/mgramigna/gramigna.dev/internal/posts"
	"github.com/mgramigna/gramigna.dev/internal/site"
	"github.com/spf13/cobra"
)

var (
	announce bool
	dryRun   bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Write the static site to the output directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		opts := build.Options{
			OutputDir: a.cfg.Output.Dir,
			StaticDir: a.cfg.Static.Dir,
		}
		if a.cfg.Content.Source == config.SourceDir {
			opts.ContentDir = a.cfg.Content.Dir
		}
		res, err := build.NewBuilder(a.svc, a.pages, opts, a.logger).Build(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "built %d pages (%d posts) into %s\n", len(res.Pages), len(res.Posts), opts.OutputDir)

		if !announce {
			return nil
		}
		return a.announce(ctx, res.Posts)
	},
}

func init() {
	buildCmd.Flags().BoolVar(&announce, "announce", false, "publish post.published events for posts not announced yet")
	buildCmd.Flags().BoolVar(&dryRun, "dry-run", false, "with --announce, log what would be announced without a broker or database")
}

func (a *app) announce(ctx context.Context, listing []*posts.Post) error {
	urlFor := func(slug string) string { return a.cfg.Site.URL(site.PostPath(slug)) }

	if dryRun {
		n, err := events.NewAnnouncer(ledger.NewMemoryLedger(), events.DryRunPublisher{Logger: a.logger}, urlFor, a.logger).Announce(ctx, listing)
		if err != nil {
			return err
		}
		a.logger.Info("dry run finished", "would_announce", n)
		return nil
	}

	if a.cfg.RabbitMQ.URL == "" || a.cfg.Database.URL == "" {
		a.logger.Warn("skipping announcements: RABBITMQ_URL and DATABASE_URL are required")
		return nil
	}

	l, db, err := ledger.Open(ctx, a.cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	pub, err := events.NewRabbitMQPublisher(a.cfg.RabbitMQ.URL)
	if err != nil {
		return err
	}
	defer pub.Close()

	n, err := events.NewAnnouncer(l, pub, urlFor, a.logger).Announce(ctx, listing)
	if err != nil {
		return fmt.Errorf("announce posts (%d sent): %w", n, err)
	}
	a.logger.Info("announcements sent", "count", n)
	return nil
}
