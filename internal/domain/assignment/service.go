package assignment

import (
	"context"
)

// AttendanceService governs the assignment state machine from verified
// clock-in through break compliance to final hours.
type AttendanceService interface {
	// ClockIn runs the verification pipeline (time window, geofence,
	// identity) and transitions assigned -> checked_in on success. A failed
	// pipeline returns a TransitionResult with a stable rejection code and
	// leaves the assignment untouched apart from the attempt counter.
	ClockIn(ctx context.Context, req ClockInRequest) (TransitionResult, error)

	// ClockOut validates reported breaks, derives the hour fields and
	// transitions checked_in -> checked_out. If this was the shift's last
	// outstanding assignment the shift completes.
	ClockOut(ctx context.Context, req ClockOutRequest) (TransitionResult, error)

	// Get returns a single assignment, owner or business only
	Get(ctx context.Context, id string) (AssignmentResponse, error)

	// MyAssignments returns the caller's assignments with pagination
	MyAssignments(ctx context.Context, page, limit int) (ListAssignmentsResponse, error)
}
