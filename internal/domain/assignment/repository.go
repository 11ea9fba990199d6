package assignment

import (
	"context"
	"time"
)

// ClockInRecord carries everything persisted on a successful clock-in.
type ClockInRecord struct {
	At              time.Time
	Latitude        float64
	Longitude       float64
	Method          VerificationMethod
	Confidence      *float64
	LivenessPassed  *bool
	WasLate         bool
	LatenessFlagged bool
	LateMinutes     int
}

// ClockOutRecord carries everything persisted on clock-out.
type ClockOutRecord struct {
	At            time.Time
	Latitude      float64
	Longitude     float64
	Breaks        []BreakInterval
	Hours         HoursBreakdown
	PaymentStatus PaymentStatus
}

// AssignmentRepository defines data access methods for shift assignments.
// The clock-in and clock-out writes are compare-and-set: they only apply
// when the stored status still matches the expected state, and report false
// otherwise so a concurrent double transition surfaces as a conflict.
type AssignmentRepository interface {
	Create(ctx context.Context, a ShiftAssignment) (ShiftAssignment, error)

	GetByID(ctx context.Context, id string) (ShiftAssignment, error)

	GetByWorkerAndShift(ctx context.Context, workerID, shiftID string) (ShiftAssignment, error)

	ListByWorker(ctx context.Context, workerID string, limit, offset int) ([]ShiftAssignment, int64, error)

	CountActiveByShift(ctx context.Context, shiftID string) (int, error)

	// CountOutstandingByShift counts assignments not yet in a terminal state
	CountOutstandingByShift(ctx context.Context, shiftID string) (int, error)

	// IncrementClockInAttempts bumps the per-assignment attempt counter and
	// optionally records the failure reason code. Every clock-in call,
	// success or failure, increments this counter.
	IncrementClockInAttempts(ctx context.Context, id string, failureReason *string) error

	// RecordClockIn applies the assigned -> checked_in transition atomically.
	// Returns false when the assignment was no longer in assigned state.
	RecordClockIn(ctx context.Context, id string, rec ClockInRecord) (bool, error)

	// RecordClockOut applies the checked_in -> checked_out transition
	// atomically. Returns false when the assignment was not checked in.
	RecordClockOut(ctx context.Context, id string, rec ClockOutRecord) (bool, error)

	// UpdateStatus applies a validated transition (e.g. checked_out ->
	// completed, assigned -> cancelled) with the same CAS discipline.
	UpdateStatus(ctx context.Context, id string, from, to Status) (bool, error)

	// Archive stamps the assignment for audit retention
	Archive(ctx context.Context, id string, at time.Time) error

	// LockShift takes the per-shift advisory lock for the current transaction
	LockShift(ctx context.Context, shiftID string) error
}
