package notification

import (
	"context"
	"time"
)

// Event names emitted by the shift lifecycle.
const (
	EventApplicationReceived  = "application.received"
	EventApplicationAccepted  = "application.accepted"
	EventApplicationRejected  = "application.rejected"
	EventShiftStarted         = "shift.started"
	EventShiftCompleted       = "shift.completed"
	EventWorkerCheckedIn      = "worker.checked_in"
	EventWorkerCheckedOut     = "worker.checked_out"
	EventClockInRejected      = "worker.clock_in_rejected"
	EventManualReviewRequired = "worker.manual_review_required"
)

// Notification is one recorded lifecycle event.
type Notification struct {
	ID        string
	WorkerID  *string
	Event     string
	Payload   map[string]any
	CreatedAt time.Time
}

// Sink receives lifecycle events fire-and-forget: implementations must never
// block or fail the state machine that emits them.
type Sink interface {
	Notify(ctx context.Context, event string, workerID *string, payload map[string]any)
}

// NotificationRepository persists the event feed for later delivery by an
// external collaborator.
type NotificationRepository interface {
	Insert(ctx context.Context, n Notification) error
	ListByWorker(ctx context.Context, workerID string, limit, offset int) ([]Notification, int64, error)
}

// Feed exposes a worker's recorded events for polling clients.
type Feed interface {
	List(ctx context.Context, workerID string, page, limit int) ([]Notification, int64, error)
}
