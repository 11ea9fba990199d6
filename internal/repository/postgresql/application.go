package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/gigline/gigline-backend-go/internal/domain/matching"
	"github.com/gigline/gigline-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type applicationRepository struct {
	db *database.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *database.DB) matching.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, worker_id, shift_id, status,
	   match_score, skill_score, proximity_score, reliability_score, rating_score, recency_score,
	   distance_km, rank_position, applied_at, created_at, updated_at`

// Create implements matching.ApplicationRepository. A partial unique index
// on (worker_id, shift_id) over non-withdrawn rows enforces the one-active-
// application invariant even if the advisory lock is bypassed.
func (r *applicationRepository) Create(ctx context.Context, app matching.ShiftApplication) (matching.ShiftApplication, error) {
	q := GetQuerier(ctx, r.db)

	if app.ID == "" {
		app.ID = uuid.New().String()
	}

	query := `
		INSERT INTO shift_applications (
			id, worker_id, shift_id, status,
			match_score, skill_score, proximity_score, reliability_score, rating_score, recency_score,
			distance_km, applied_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		app.ID,
		app.WorkerID,
		app.ShiftID,
		string(app.Status),
		app.MatchScore,
		app.SkillScore,
		app.ProximityScore,
		app.ReliabilityScore,
		app.RatingScore,
		app.RecencyScore,
		app.DistanceKm,
		app.AppliedAt,
	).Scan(&app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return matching.ShiftApplication{}, matching.ErrDuplicateApplication
		}
		return matching.ShiftApplication{}, fmt.Errorf("failed to create application: %w", err)
	}

	return app, nil
}

// GetByID implements matching.ApplicationRepository.
func (r *applicationRepository) GetByID(ctx context.Context, id string) (matching.ShiftApplication, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + applicationColumns + `
		FROM shift_applications
		WHERE id = $1
	`

	app, err := scanApplication(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return matching.ShiftApplication{}, matching.ErrApplicationNotFound
		}
		return matching.ShiftApplication{}, fmt.Errorf("failed to get application: %w", err)
	}

	return app, nil
}

// GetActiveByWorkerAndShift implements matching.ApplicationRepository.
func (r *applicationRepository) GetActiveByWorkerAndShift(ctx context.Context, workerID, shiftID string) (matching.ShiftApplication, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + applicationColumns + `
		FROM shift_applications
		WHERE worker_id = $1 AND shift_id = $2 AND status != 'withdrawn'
	`

	app, err := scanApplication(q.QueryRow(ctx, query, workerID, shiftID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return matching.ShiftApplication{}, matching.ErrApplicationNotFound
		}
		return matching.ShiftApplication{}, fmt.Errorf("failed to get application: %w", err)
	}

	return app, nil
}

// ListPendingByShift implements matching.ApplicationRepository.
func (r *applicationRepository) ListPendingByShift(ctx context.Context, shiftID string) ([]matching.ShiftApplication, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + applicationColumns + `
		FROM shift_applications
		WHERE shift_id = $1 AND status = 'pending'
		ORDER BY match_score DESC, applied_at ASC
	`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending applications: %w", err)
	}
	defer rows.Close()

	return collectApplications(rows)
}

// ListByWorker implements matching.ApplicationRepository.
func (r *applicationRepository) ListByWorker(ctx context.Context, workerID string, limit, offset int) ([]matching.ShiftApplication, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	countQuery := `SELECT COUNT(*) FROM shift_applications WHERE worker_id = $1`
	if err := q.QueryRow(ctx, countQuery, workerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	query := `
		SELECT ` + applicationColumns + `
		FROM shift_applications
		WHERE worker_id = $1
		ORDER BY applied_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, workerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps, err := collectApplications(rows)
	if err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// UpdateRankPositions implements matching.ApplicationRepository.
func (r *applicationRepository) UpdateRankPositions(ctx context.Context, updates []matching.RankUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_applications
		SET rank_position = $2, updated_at = NOW()
		WHERE id = $1
	`
	for _, u := range updates {
		if _, err := q.Exec(ctx, query, u.ApplicationID, u.Position); err != nil {
			return fmt.Errorf("failed to update rank position: %w", err)
		}
	}

	return nil
}

// UpdateStatus implements matching.ApplicationRepository. Rank positions
// only mean anything within the pending set, so leaving it clears the rank.
func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, status matching.ApplicationStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_applications
		SET status = $2, rank_position = NULL, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return matching.ErrApplicationNotFound
	}

	return nil
}

// RejectOtherPending implements matching.ApplicationRepository.
func (r *applicationRepository) RejectOtherPending(ctx context.Context, shiftID, acceptedID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_applications
		SET status = 'rejected', rank_position = NULL, updated_at = NOW()
		WHERE shift_id = $1 AND status = 'pending' AND id != $2
	`
	if _, err := q.Exec(ctx, query, shiftID, acceptedID); err != nil {
		return fmt.Errorf("failed to reject pending applications: %w", err)
	}

	return nil
}

// LockShift implements matching.ApplicationRepository.
func (r *applicationRepository) LockShift(ctx context.Context, shiftID string) error {
	return lockShift(ctx, r.db, shiftID)
}

func scanApplication(row pgx.Row) (matching.ShiftApplication, error) {
	var app matching.ShiftApplication
	var status string
	err := row.Scan(
		&app.ID, &app.WorkerID, &app.ShiftID, &status,
		&app.MatchScore, &app.SkillScore, &app.ProximityScore, &app.ReliabilityScore, &app.RatingScore, &app.RecencyScore,
		&app.DistanceKm, &app.RankPosition, &app.AppliedAt, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return matching.ShiftApplication{}, err
	}
	app.Status = matching.ApplicationStatus(status)
	return app, nil
}

func collectApplications(rows pgx.Rows) ([]matching.ShiftApplication, error) {
	var apps []matching.ShiftApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, nil
}
