package matching

import (
	"context"
)

// RankUpdate pairs an application with its recomputed 1-based rank.
type RankUpdate struct {
	ApplicationID string
	Position      int
}

// ApplicationRepository defines data access methods for shift applications.
// LockShift must be called inside a transaction before any read-modify-write
// over a shift's pending set; it serializes ranking against concurrent
// application inserts for the same shift.
type ApplicationRepository interface {
	Create(ctx context.Context, app ShiftApplication) (ShiftApplication, error)

	GetByID(ctx context.Context, id string) (ShiftApplication, error)

	// GetActiveByWorkerAndShift returns the worker's non-withdrawn
	// application for the shift, or ErrApplicationNotFound
	GetActiveByWorkerAndShift(ctx context.Context, workerID, shiftID string) (ShiftApplication, error)

	// ListPendingByShift returns all pending applications for a shift
	// ordered by match score descending, earliest applied first on ties
	ListPendingByShift(ctx context.Context, shiftID string) ([]ShiftApplication, error)

	ListByWorker(ctx context.Context, workerID string, limit, offset int) ([]ShiftApplication, int64, error)

	// UpdateRankPositions persists recomputed 1-based rank positions
	UpdateRankPositions(ctx context.Context, updates []RankUpdate) error

	UpdateStatus(ctx context.Context, id string, status ApplicationStatus) error

	// RejectOtherPending rejects every pending application for the shift
	// except the accepted one
	RejectOtherPending(ctx context.Context, shiftID, acceptedID string) error

	// LockShift takes the per-shift advisory lock for the current transaction
	LockShift(ctx context.Context, shiftID string) error
}
