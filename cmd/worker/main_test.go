package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mgramigna/gramigna.dev/internal/events"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAcknowledger struct {
	acked, nacked, requeued bool
}

func (f *fakeAcknowledger) Ack(uint64, bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}

func TestHandlePostPublished(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	valid, err := json.Marshal(events.NewPostPublished(events.PostPublishedPayload{
		Slug:    "tauri-type-safety",
		Title:   "End-to-end type safety in Tauri",
		PubDate: time.Date(2024, time.April, 23, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, err)

	other, err := json.Marshal(events.PostPublished{Type: "post.deleted"})
	require.NoError(t, err)

	noSlug, err := json.Marshal(events.NewPostPublished(events.PostPublishedPayload{Title: "x"}))
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       []byte
		wantAck    bool
		wantNacked bool
	}{
		{"valid event", valid, true, false},
		{"other event type", other, true, false},
		{"malformed body", []byte("{"), false, true},
		{"missing slug", noSlug, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAcknowledger{}
			handlePostPublished(logger, amqp.Delivery{Acknowledger: ack, Body: tt.body})

			assert.Equal(t, tt.wantAck, ack.acked)
			assert.Equal(t, tt.wantNacked, ack.nacked)
			assert.False(t, ack.requeued)
		})
	}
}
