package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mgramigna/gramigna.dev/internal/config"
	"github.com/mgramigna/gramigna.dev/internal/handlers"
	"github.com/mgramigna/gramigna.dev/internal/ledger"
	"github.com/mgramigna/gramigna.dev/internal/middleware"
	"github.com/mgramigna/gramigna.dev/internal/watch"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site over HTTP, reloading content on change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		return a.serve(ctx)
	},
}

func (a *app) serve(ctx context.Context) error {
	catalog, err := a.svc.Reload(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("content loaded", "posts", catalog.Len(), "source", a.cfg.Content.Source)

	var db *sql.DB
	if a.cfg.Database.URL != "" {
		_, conn, err := ledger.Open(ctx, a.cfg.Database.URL)
		if err != nil {
			a.logger.Warn("database unavailable", "error", err)
		} else {
			db = conn
			defer db.Close()
		}
	}

	mux := http.NewServeMux()
	handlers.NewPagesHandler(a.svc, a.pages, a.cfg.Static.Dir, a.logger).Register(mux)
	mux.HandleFunc("GET /health", handlers.Health(&handlers.HealthDeps{
		Storage:     a.store,
		Posts:       a.svc,
		DB:          db,
		RabbitMQURL: a.cfg.RabbitMQ.URL,
	}))
	mux.Handle("GET /metrics", middleware.Token(a.cfg.Metrics.Token)(promhttp.Handler()))

	handler := middleware.RequestID(middleware.Logging(a.logger)(middleware.Metrics(mux)))

	if a.cfg.Content.Source == config.SourceDir {
		w, err := watch.New([]string{a.cfg.Content.Dir}, watch.DefaultDebounce, a.logger)
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx, a.reload); err != nil {
				a.logger.Error("content watcher stopped", "error", err)
			}
		}()
	}

	server := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server started", "port", a.cfg.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// reload swaps in freshly loaded content. Invalid content is logged and the
// previous catalog keeps serving.
func (a *app) reload(ctx context.Context) {
	start := time.Now()
	catalog, err := a.svc.Reload(ctx)
	if err != nil {
		a.logger.Error("content reload failed, keeping previous content", "error", err)
		return
	}
	a.logger.Info("content reloaded", "posts", catalog.Len(), "duration_ms", time.Since(start).Milliseconds())
}
