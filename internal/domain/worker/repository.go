package worker

import (
	"context"
	"time"
)

// WorkerRepository defines data access methods for workers.
type WorkerRepository interface {
	// Create creates a new worker together with an initial reliability profile
	Create(ctx context.Context, w Worker) (Worker, error)

	// GetByID retrieves a worker by id
	GetByID(ctx context.Context, id string) (Worker, error)

	// GetByEmail retrieves a worker by email, used by auth
	GetByEmail(ctx context.Context, email string) (Worker, error)

	// SetLastCompletedShift records the completion time of the worker's most
	// recent shift, feeding the recency sub-score
	SetLastCompletedShift(ctx context.Context, workerID string, completedAt time.Time) error
}

// ReliabilityStore mutates and reads reliability profiles. Adjust must be
// called inside the same transaction as the state change that caused the
// delta; the score is clamped to [ReliabilityScoreMin, ReliabilityScoreMax].
type ReliabilityStore interface {
	Get(ctx context.Context, workerID string) (ReliabilityProfile, error)

	// Adjust applies delta to the worker's score and returns the updated profile
	Adjust(ctx context.Context, workerID string, delta float64, reason string) (ReliabilityProfile, error)

	IncrementLateArrival(ctx context.Context, workerID string) error
	IncrementEarlyDeparture(ctx context.Context, workerID string) error
}
