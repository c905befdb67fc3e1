package events

import "context"

// Publisher delivers post.published announcements to subscribers.
type Publisher interface {
	PublishPostPublished(ctx context.Context, e PostPublished) error
}
