package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/gigline/gigline-backend-go/internal/domain/worker"
	"github.com/gigline/gigline-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type reliabilityStore struct {
	db *database.DB
}

// NewReliabilityStore creates a new reliability store
func NewReliabilityStore(db *database.DB) worker.ReliabilityStore {
	return &reliabilityStore{db: db}
}

// Get implements worker.ReliabilityStore.
func (r *reliabilityStore) Get(ctx context.Context, workerID string) (worker.ReliabilityProfile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT worker_id, score, late_arrival_count, early_departure_count, updated_at
		FROM reliability_profiles
		WHERE worker_id = $1
	`

	var p worker.ReliabilityProfile
	err := q.QueryRow(ctx, query, workerID).Scan(
		&p.WorkerID, &p.Score, &p.LateArrivalCount, &p.EarlyDepartureCount, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worker.ReliabilityProfile{}, worker.ErrProfileNotFound
		}
		return worker.ReliabilityProfile{}, fmt.Errorf("failed to get reliability profile: %w", err)
	}

	return p, nil
}

// Adjust implements worker.ReliabilityStore. The score is clamped in SQL so
// concurrent deltas can never push it out of bounds, and every delta leaves
// an audit row with its reason.
func (r *reliabilityStore) Adjust(ctx context.Context, workerID string, delta float64, reason string) (worker.ReliabilityProfile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE reliability_profiles
		SET score = LEAST($3, GREATEST($2, score + $4)), updated_at = NOW()
		WHERE worker_id = $1
		RETURNING worker_id, score, late_arrival_count, early_departure_count, updated_at
	`

	var p worker.ReliabilityProfile
	err := q.QueryRow(ctx, query, workerID,
		worker.ReliabilityScoreMin, worker.ReliabilityScoreMax, delta,
	).Scan(&p.WorkerID, &p.Score, &p.LateArrivalCount, &p.EarlyDepartureCount, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worker.ReliabilityProfile{}, worker.ErrProfileNotFound
		}
		return worker.ReliabilityProfile{}, fmt.Errorf("failed to adjust reliability score: %w", err)
	}

	auditQuery := `
		INSERT INTO reliability_adjustments (id, worker_id, delta, reason)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := q.Exec(ctx, auditQuery, uuid.New().String(), workerID, delta, reason); err != nil {
		return worker.ReliabilityProfile{}, fmt.Errorf("failed to record reliability adjustment: %w", err)
	}

	return p, nil
}

// IncrementLateArrival implements worker.ReliabilityStore.
func (r *reliabilityStore) IncrementLateArrival(ctx context.Context, workerID string) error {
	return r.incrementCounter(ctx, workerID, "late_arrival_count")
}

// IncrementEarlyDeparture implements worker.ReliabilityStore.
func (r *reliabilityStore) IncrementEarlyDeparture(ctx context.Context, workerID string) error {
	return r.incrementCounter(ctx, workerID, "early_departure_count")
}

func (r *reliabilityStore) incrementCounter(ctx context.Context, workerID, column string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE reliability_profiles
		SET ` + column + ` = ` + column + ` + 1, updated_at = NOW()
		WHERE worker_id = $1
	`
	tag, err := q.Exec(ctx, query, workerID)
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return worker.ErrProfileNotFound
	}

	return nil
}
