package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gigline/gigline-backend-go/internal/domain/worker"
	"github.com/gigline/gigline-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type workerRepository struct {
	db *database.DB
}

// NewWorkerRepository creates a new worker repository
func NewWorkerRepository(db *database.DB) worker.WorkerRepository {
	return &workerRepository{db: db}
}

const workerColumns = `id, email, password_hash, full_name, role, skills,
	   home_latitude, home_longitude, average_rating, last_completed_shift_at,
	   created_at, updated_at`

// Create implements worker.WorkerRepository. The initial reliability profile
// is inserted in the same call so every worker has one from the start.
func (r *workerRepository) Create(ctx context.Context, w worker.Worker) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	if w.ID == "" {
		w.ID = uuid.New().String()
	}

	query := `
		INSERT INTO workers (id, email, password_hash, full_name, role, skills, home_latitude, home_longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		w.ID,
		w.Email,
		w.PasswordHash,
		w.FullName,
		string(w.Role),
		w.Skills,
		w.HomeLatitude,
		w.HomeLongitude,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return worker.Worker{}, worker.ErrEmailExists
		}
		return worker.Worker{}, fmt.Errorf("failed to create worker: %w", err)
	}

	profileQuery := `
		INSERT INTO reliability_profiles (worker_id, score)
		VALUES ($1, $2)
	`
	if _, err := q.Exec(ctx, profileQuery, w.ID, worker.ReliabilityScoreInitial); err != nil {
		return worker.Worker{}, fmt.Errorf("failed to create reliability profile: %w", err)
	}

	return w, nil
}

// GetByID implements worker.WorkerRepository.
func (r *workerRepository) GetByID(ctx context.Context, id string) (worker.Worker, error) {
	return r.getByColumn(ctx, "id", id)
}

// GetByEmail implements worker.WorkerRepository.
func (r *workerRepository) GetByEmail(ctx context.Context, email string) (worker.Worker, error) {
	return r.getByColumn(ctx, "email", email)
}

func (r *workerRepository) getByColumn(ctx context.Context, column, value string) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + workerColumns + `
		FROM workers
		WHERE ` + column + ` = $1
	`

	var w worker.Worker
	var role string
	err := q.QueryRow(ctx, query, value).Scan(
		&w.ID, &w.Email, &w.PasswordHash, &w.FullName, &role, &w.Skills,
		&w.HomeLatitude, &w.HomeLongitude, &w.AverageRating, &w.LastCompletedShiftAt,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worker.Worker{}, worker.ErrWorkerNotFound
		}
		return worker.Worker{}, fmt.Errorf("failed to get worker: %w", err)
	}
	w.Role = worker.Role(role)

	return w, nil
}

// SetLastCompletedShift implements worker.WorkerRepository.
func (r *workerRepository) SetLastCompletedShift(ctx context.Context, workerID string, completedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE workers
		SET last_completed_shift_at = $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, workerID, completedAt)
	if err != nil {
		return fmt.Errorf("failed to set last completed shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return worker.ErrWorkerNotFound
	}

	return nil
}
