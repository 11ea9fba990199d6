package shift

import (
	"context"
	"time"
)

// ShiftRepository defines data access methods for shifts.
type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)

	GetByID(ctx context.Context, id string) (Shift, error)

	// ListOpen returns open shifts ordered by scheduled start
	ListOpen(ctx context.Context, limit, offset int) ([]Shift, int64, error)

	// MarkInProgress flips an open shift to in_progress and records the
	// timestamp of the first clock-in. Returns false when the shift was
	// already past open, which is not an error.
	MarkInProgress(ctx context.Context, id string, at time.Time) (bool, error)

	// MarkCompleted flips an in_progress shift to completed once every
	// assignment has reached a terminal state.
	MarkCompleted(ctx context.Context, id string) (bool, error)
}
