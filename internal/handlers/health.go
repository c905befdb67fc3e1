package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/mgramigna/gramigna.dev/internal/posts"
	"github.com/mgramigna/gramigna.dev/internal/storage"
	amqp "github.com/rabbitmq/amqp091-go"
)

type HealthDeps struct {
	Storage     storage.Storage
	Posts       *posts.Service
	DB          *sql.DB
	RabbitMQURL string
}

type healthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	Posts    int               `json:"posts"`
	LoadedAt time.Time         `json:"loaded_at"`
}

func Health(deps *HealthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		status := "healthy"

		if _, err := deps.Storage.Exists(ctx, "__health__"); err != nil {
			checks["content"] = "unhealthy"
			status = "unhealthy"
		} else {
			checks["content"] = "ok"
		}

		if deps.DB != nil {
			if err := deps.DB.PingContext(ctx); err != nil {
				checks["db"] = "unhealthy"
				if status == "healthy" {
					status = "degraded"
				}
			} else {
				checks["db"] = "ok"
			}
		} else {
			checks["db"] = "skipped"
		}

		if deps.RabbitMQURL != "" {
			conn, err := dialBroker(ctx, deps.RabbitMQURL)
			if err != nil {
				checks["rabbitmq"] = "unhealthy"
				if status == "healthy" {
					status = "degraded"
				}
			} else {
				_ = conn.Close()
				checks["rabbitmq"] = "ok"
			}
		} else {
			checks["rabbitmq"] = "skipped"
		}

		catalog := deps.Posts.Catalog()
		code := http.StatusOK
		if status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, healthResponse{
			Status:   status,
			Checks:   checks,
			Posts:    catalog.Len(),
			LoadedAt: catalog.LoadedAt(),
		})
	}
}

// brokerDialTimeout caps the broker probe when the request context has no
// earlier deadline.
var brokerDialTimeout = 2 * time.Second

func dialBroker(ctx context.Context, url string) (*amqp.Connection, error) {
	timeout := brokerDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}
	return amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(timeout)})
}
