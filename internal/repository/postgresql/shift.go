package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gigline/gigline-backend-go/internal/domain/shift"
	"github.com/gigline/gigline-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db *database.DB
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `id, business_id, title, latitude, longitude,
	   scheduled_date, scheduled_start, scheduled_end,
	   geofence_radius_meters, early_clock_in_minutes, late_grace_minutes,
	   require_face_verification, required_skills, capacity, status,
	   started_at, created_at, updated_at`

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = shift.StatusOpen
	}

	query := `
		INSERT INTO shifts (
			id, business_id, title, latitude, longitude,
			scheduled_date, scheduled_start, scheduled_end,
			geofence_radius_meters, early_clock_in_minutes, late_grace_minutes,
			require_face_verification, required_skills, capacity, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID,
		s.BusinessID,
		s.Title,
		s.Latitude,
		s.Longitude,
		s.ScheduledDate,
		s.ScheduledStart,
		s.ScheduledEnd,
		s.GeofenceRadiusMeters,
		s.EarlyClockInMinutes,
		s.LateGraceMinutes,
		s.RequireFaceVerification,
		s.RequiredSkills,
		s.Capacity,
		string(s.Status),
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE id = $1
	`

	s, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return s, nil
}

// ListOpen implements shift.ShiftRepository.
func (r *shiftRepository) ListOpen(ctx context.Context, limit, offset int) ([]shift.Shift, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	countQuery := `SELECT COUNT(*) FROM shifts WHERE status = 'open'`
	if err := q.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count open shifts: %w", err)
	}

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE status = 'open'
		ORDER BY scheduled_start ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list open shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate shifts: %w", err)
	}

	return shifts, total, nil
}

// MarkInProgress implements shift.ShiftRepository. The status guard makes
// the update a no-op for every clock-in after the first.
func (r *shiftRepository) MarkInProgress(ctx context.Context, id string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET status = 'in_progress', started_at = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'open'
	`
	tag, err := q.Exec(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to mark shift in progress: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkCompleted implements shift.ShiftRepository.
func (r *shiftRepository) MarkCompleted(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET status = 'completed', updated_at = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`
	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark shift completed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	var status string
	err := row.Scan(
		&s.ID, &s.BusinessID, &s.Title, &s.Latitude, &s.Longitude,
		&s.ScheduledDate, &s.ScheduledStart, &s.ScheduledEnd,
		&s.GeofenceRadiusMeters, &s.EarlyClockInMinutes, &s.LateGraceMinutes,
		&s.RequireFaceVerification, &s.RequiredSkills, &s.Capacity, &status,
		&s.StartedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return shift.Shift{}, err
	}
	s.Status = shift.Status(status)
	return s, nil
}
