package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/gigline/gigline-backend-go/internal/domain/notification"
)

// SinkImpl records lifecycle events to the feed table and the structured
// log. Persistence failures are logged and swallowed so the state machine
// emitting the event is never blocked.
type SinkImpl struct {
	repo notification.NotificationRepository
}

func NewSink(repo notification.NotificationRepository) notification.Sink {
	return &SinkImpl{repo: repo}
}

// Notify implements notification.Sink.
func (s *SinkImpl) Notify(ctx context.Context, event string, workerID *string, payload map[string]any) {
	n := notification.Notification{
		WorkerID:  workerID,
		Event:     event,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}

	// A client disconnect after the state change committed should not drop
	// the event record.
	if err := s.repo.Insert(context.WithoutCancel(ctx), n); err != nil {
		slog.Error("failed to persist notification",
			"event", event,
			"error", err,
		)
	}

	attrs := []any{"event", event}
	if workerID != nil {
		attrs = append(attrs, "worker_id", *workerID)
	}
	slog.Info("lifecycle event", attrs...)
}

// FeedImpl serves a worker's recorded events to polling clients.
type FeedImpl struct {
	repo notification.NotificationRepository
}

func NewFeed(repo notification.NotificationRepository) notification.Feed {
	return &FeedImpl{repo: repo}
}

// List implements notification.Feed.
func (f *FeedImpl) List(ctx context.Context, workerID string, page, limit int) ([]notification.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return f.repo.ListByWorker(ctx, workerID, limit, (page-1)*limit)
}
