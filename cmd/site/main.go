package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mgramigna/gramigna.dev/internal/config"
	"github.com/mgramigna/gramigna.dev/internal/markdown"
	"github.com/mgramigna/gramigna.dev/internal/posts"
	"github.com/mgramigna/gramigna.dev/internal/render"
	"github.com/mgramigna/gramigna.dev/internal/storage"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "site",
	Short:         "Build and serve gramigna.dev",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./site.yaml)")
	rootCmd.AddCommand(buildCmd, serveCmd, checkCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app is the set of components every command works with.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  storage.Storage
	svc    *posts.Service
	pages  *render.Renderer
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pages, err := render.New(cfg.Site)
	if err != nil {
		return nil, err
	}

	repo := posts.NewStorageRepository(store, markdown.New(cfg.Markdown.Sanitize))
	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		svc:    posts.NewService(repo, cfg.Content.Collection),
		pages:  pages,
	}, nil
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Content.Source {
	case config.SourceS3:
		client, err := storage.NewS3Client(ctx, cfg.AWS.Region, cfg.S3.Endpoint)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Storage(client, cfg.S3.Bucket, cfg.S3.Prefix), nil
	default:
		return storage.NewDirStorage(cfg.Content.Dir), nil
	}
}
