package events

import (
	"time"

	"github.com/google/uuid"
)

const TypePostPublished = "post.published"

type PostPublishedPayload struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PubDate     time.Time `json:"pub_date"`
	URL         string    `json:"url,omitempty"`
}

type PostPublished struct {
	ID        uuid.UUID            `json:"id"`
	Type      string               `json:"type"`
	Timestamp time.Time            `json:"timestamp"`
	Payload   PostPublishedPayload `json:"payload"`
}

func NewPostPublished(payload PostPublishedPayload) PostPublished {
	return PostPublished{
		ID:        uuid.New(),
		Type:      TypePostPublished,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
