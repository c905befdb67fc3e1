// Command worker consumes post.published announcements and hands them to the
// newsletter.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mgramigna/gramigna.dev/internal/config"
	"github.com/mgramigna/gramigna.dev/internal/events"
	amqp "github.com/rabbitmq/amqp091-go"
)

const consumerTag = "newsletter-worker"

func main() {
	cfg, err := config.Load(os.Getenv("SITE_CONFIG"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg.RabbitMQ.URL, logger); err != nil {
		logger.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, url string, logger *slog.Logger) error {
	if url == "" {
		return errors.New("RABBITMQ_URL is required")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	queue, err := declareQueue(ch)
	if err != nil {
		return err
	}

	deliveries, err := ch.ConsumeWithContext(ctx, queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}
	logger.Info("newsletter worker started", "queue", queue)

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutting down")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			handlePostPublished(logger, d)
		}
	}
}

// declareQueue makes sure the announcement queue exists and is bound to the
// site exchange, and limits unacknowledged deliveries to one at a time.
func declareQueue(ch *amqp.Channel) (string, error) {
	if err := ch.ExchangeDeclare(events.ExchangeName, "topic", true, false, false, false, nil); err != nil {
		return "", fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(events.QueueName, true, false, false, false, nil)
	if err != nil {
		return "", fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, events.RoutingKey, events.ExchangeName, false, nil); err != nil {
		return "", fmt.Errorf("bind queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return "", fmt.Errorf("set prefetch: %w", err)
	}
	return q.Name, nil
}

// handlePostPublished acks announcements it could process and drops
// malformed ones without requeueing them.
func handlePostPublished(logger *slog.Logger, d amqp.Delivery) {
	var e events.PostPublished
	if err := json.Unmarshal(d.Body, &e); err != nil {
		logger.Error("invalid event body", "error", err, "message_id", d.MessageId)
		_ = d.Nack(false, false)
		return
	}
	if e.Type != events.TypePostPublished {
		logger.Debug("ignoring event type", "type", e.Type)
		_ = d.Ack(false)
		return
	}
	if e.Payload.Slug == "" {
		logger.Error("event without slug", "event_id", e.ID)
		_ = d.Nack(false, false)
		return
	}

	logger.Info("post announcement received",
		"event_id", e.ID,
		"slug", e.Payload.Slug,
		"title", e.Payload.Title,
		"pub_date", e.Payload.PubDate.Format(time.DateOnly),
		"url", e.Payload.URL,
	)
	if err := d.Ack(false); err != nil {
		logger.Error("failed to ack", "error", err, "slug", e.Payload.Slug)
	}
}
