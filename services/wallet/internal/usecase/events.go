package usecase

import (
	"context"
	"io"

	"readverse/pkg/logger"
	"readverse/pkg/queue"
)

// EventPublisher receives wallet events after the owning transaction commits.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event queue.Event) error
}

// ReceiptStorage holds top-up receipt images.
type ReceiptStorage interface {
	UploadFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

// publish is best effort: the money flow has already committed.
func publish(ctx context.Context, publisher EventPublisher, log *logger.Logger, event queue.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishEvent(ctx, event); err != nil {
		log.Warn("Failed to publish %s event for user %s: %v", event.Type, event.UserID, err)
	}
}
