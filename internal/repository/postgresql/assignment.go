package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gigline/gigline-backend-go/internal/domain/assignment"
	"github.com/gigline/gigline-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type assignmentRepository struct {
	db *database.DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *database.DB) assignment.AssignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = `id, worker_id, shift_id, application_id, status,
	   scheduled_date, scheduled_start, scheduled_end,
	   clock_in_at, clock_in_latitude, clock_in_longitude,
	   clock_out_at, clock_out_latitude, clock_out_longitude,
	   verification_method, verification_confidence, liveness_passed,
	   breaks,
	   gross_hours, break_deduction_hours, net_hours_worked, billable_hours,
	   overtime_hours, overtime_approved,
	   was_late, lateness_flagged, late_minutes,
	   early_departure, early_departure_minutes, break_compliant,
	   clock_in_attempts, last_failure_reason, payment_status,
	   created_at, updated_at, archived_at`

// Create implements assignment.AssignmentRepository.
func (r *assignmentRepository) Create(ctx context.Context, a assignment.ShiftAssignment) (assignment.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	query := `
		INSERT INTO shift_assignments (
			id, worker_id, shift_id, application_id, status,
			scheduled_date, scheduled_start, scheduled_end
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.ID,
		a.WorkerID,
		a.ShiftID,
		a.ApplicationID,
		string(a.Status),
		a.ScheduledDate,
		a.ScheduledStart,
		a.ScheduledEnd,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return assignment.ShiftAssignment{}, assignment.ErrAssignmentExists
		}
		return assignment.ShiftAssignment{}, fmt.Errorf("failed to create assignment: %w", err)
	}

	return a, nil
}

// GetByID implements assignment.AssignmentRepository.
func (r *assignmentRepository) GetByID(ctx context.Context, id string) (assignment.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE id = $1
	`

	a, err := scanAssignment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assignment.ShiftAssignment{}, assignment.ErrAssignmentNotFound
		}
		return assignment.ShiftAssignment{}, fmt.Errorf("failed to get assignment: %w", err)
	}

	return a, nil
}

// GetByWorkerAndShift implements assignment.AssignmentRepository.
func (r *assignmentRepository) GetByWorkerAndShift(ctx context.Context, workerID, shiftID string) (assignment.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE worker_id = $1 AND shift_id = $2
	`

	a, err := scanAssignment(q.QueryRow(ctx, query, workerID, shiftID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assignment.ShiftAssignment{}, assignment.ErrAssignmentNotFound
		}
		return assignment.ShiftAssignment{}, fmt.Errorf("failed to get assignment: %w", err)
	}

	return a, nil
}

// ListByWorker implements assignment.AssignmentRepository.
func (r *assignmentRepository) ListByWorker(ctx context.Context, workerID string, limit, offset int) ([]assignment.ShiftAssignment, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	countQuery := `SELECT COUNT(*) FROM shift_assignments WHERE worker_id = $1`
	if err := q.QueryRow(ctx, countQuery, workerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE worker_id = $1
		ORDER BY scheduled_start DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, workerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []assignment.ShiftAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate assignments: %w", err)
	}

	return assignments, total, nil
}

// CountActiveByShift implements assignment.AssignmentRepository. Cancelled
// assignments free their slot; everything else holds one.
func (r *assignmentRepository) CountActiveByShift(ctx context.Context, shiftID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM shift_assignments
		WHERE shift_id = $1 AND status != 'cancelled'
	`

	var count int
	if err := q.QueryRow(ctx, query, shiftID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active assignments: %w", err)
	}

	return count, nil
}

// CountOutstandingByShift implements assignment.AssignmentRepository.
func (r *assignmentRepository) CountOutstandingByShift(ctx context.Context, shiftID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM shift_assignments
		WHERE shift_id = $1 AND status IN ('assigned', 'checked_in')
	`

	var count int
	if err := q.QueryRow(ctx, query, shiftID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count outstanding assignments: %w", err)
	}

	return count, nil
}

// IncrementClockInAttempts implements assignment.AssignmentRepository.
func (r *assignmentRepository) IncrementClockInAttempts(ctx context.Context, id string, failureReason *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET clock_in_attempts = clock_in_attempts + 1,
		    last_failure_reason = COALESCE($2, last_failure_reason),
		    updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, id, failureReason)
	if err != nil {
		return fmt.Errorf("failed to increment clock-in attempts: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return assignment.ErrAssignmentNotFound
	}

	return nil
}

// RecordClockIn implements assignment.AssignmentRepository. The status guard
// in the WHERE clause is the compare-and-set: a concurrent clock-in that won
// the race leaves this update matching zero rows.
func (r *assignmentRepository) RecordClockIn(ctx context.Context, id string, rec assignment.ClockInRecord) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var lateMinutes *int
	if rec.WasLate {
		lateMinutes = &rec.LateMinutes
	}

	query := `
		UPDATE shift_assignments
		SET status = 'checked_in',
		    clock_in_at = $2, clock_in_latitude = $3, clock_in_longitude = $4,
		    verification_method = $5, verification_confidence = $6, liveness_passed = $7,
		    was_late = $8, lateness_flagged = $9, late_minutes = $10,
		    last_failure_reason = NULL,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'assigned'
	`
	tag, err := q.Exec(ctx, query,
		id,
		rec.At,
		rec.Latitude,
		rec.Longitude,
		string(rec.Method),
		rec.Confidence,
		rec.LivenessPassed,
		rec.WasLate,
		rec.LatenessFlagged,
		lateMinutes,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record clock-in: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// RecordClockOut implements assignment.AssignmentRepository.
func (r *assignmentRepository) RecordClockOut(ctx context.Context, id string, rec assignment.ClockOutRecord) (bool, error) {
	q := GetQuerier(ctx, r.db)

	breaksJSON, err := json.Marshal(rec.Breaks)
	if err != nil {
		return false, fmt.Errorf("failed to marshal breaks: %w", err)
	}

	var earlyDepartureMinutes *int
	if rec.Hours.EarlyDeparture {
		earlyDepartureMinutes = &rec.Hours.EarlyDepartureMinutes
	}

	query := `
		UPDATE shift_assignments
		SET status = 'checked_out',
		    clock_out_at = $2, clock_out_latitude = $3, clock_out_longitude = $4,
		    breaks = $5,
		    gross_hours = $6, break_deduction_hours = $7, net_hours_worked = $8,
		    billable_hours = $9, overtime_hours = $10, overtime_approved = $11,
		    early_departure = $12, early_departure_minutes = $13, break_compliant = $14,
		    payment_status = $15,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'checked_in'
	`
	tag, err := q.Exec(ctx, query,
		id,
		rec.At,
		rec.Latitude,
		rec.Longitude,
		breaksJSON,
		rec.Hours.GrossHours,
		rec.Hours.BreakDeductionHours,
		rec.Hours.NetHoursWorked,
		rec.Hours.BillableHours,
		rec.Hours.OvertimeHours,
		rec.Hours.OvertimeApproved,
		rec.Hours.EarlyDeparture,
		earlyDepartureMinutes,
		rec.Hours.BreakCompliant,
		string(rec.PaymentStatus),
	)
	if err != nil {
		return false, fmt.Errorf("failed to record clock-out: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// UpdateStatus implements assignment.AssignmentRepository.
func (r *assignmentRepository) UpdateStatus(ctx context.Context, id string, from, to assignment.Status) (bool, error) {
	if !assignment.CanTransition(from, to) {
		return false, assignment.ErrInvalidTransition
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	tag, err := q.Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("failed to update assignment status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Archive implements assignment.AssignmentRepository.
func (r *assignmentRepository) Archive(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET archived_at = $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to archive assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return assignment.ErrAssignmentNotFound
	}

	return nil
}

// LockShift implements assignment.AssignmentRepository.
func (r *assignmentRepository) LockShift(ctx context.Context, shiftID string) error {
	return lockShift(ctx, r.db, shiftID)
}

func scanAssignment(row pgx.Row) (assignment.ShiftAssignment, error) {
	var a assignment.ShiftAssignment
	var status string
	var method *string
	var paymentStatus *string
	var breaksJSON []byte

	err := row.Scan(
		&a.ID, &a.WorkerID, &a.ShiftID, &a.ApplicationID, &status,
		&a.ScheduledDate, &a.ScheduledStart, &a.ScheduledEnd,
		&a.ClockInAt, &a.ClockInLatitude, &a.ClockInLongitude,
		&a.ClockOutAt, &a.ClockOutLatitude, &a.ClockOutLongitude,
		&method, &a.VerificationConfidence, &a.LivenessPassed,
		&breaksJSON,
		&a.GrossHours, &a.BreakDeductionHours, &a.NetHoursWorked, &a.BillableHours,
		&a.OvertimeHours, &a.OvertimeApproved,
		&a.WasLate, &a.LatenessFlagged, &a.LateMinutes,
		&a.EarlyDeparture, &a.EarlyDepartureMinutes, &a.BreakCompliant,
		&a.ClockInAttempts, &a.LastFailureReason, &paymentStatus,
		&a.CreatedAt, &a.UpdatedAt, &a.ArchivedAt,
	)
	if err != nil {
		return assignment.ShiftAssignment{}, err
	}

	a.Status = assignment.Status(status)
	if method != nil {
		m := assignment.VerificationMethod(*method)
		a.VerificationMethod = &m
	}
	if paymentStatus != nil {
		p := assignment.PaymentStatus(*paymentStatus)
		a.PaymentStatus = &p
	}
	if len(breaksJSON) > 0 {
		if err := json.Unmarshal(breaksJSON, &a.Breaks); err != nil {
			return assignment.ShiftAssignment{}, fmt.Errorf("failed to unmarshal breaks: %w", err)
		}
	}

	return a, nil
}
