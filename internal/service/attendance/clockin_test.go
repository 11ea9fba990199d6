package attendance

import (
	"testing"
	"time"

	"github.com/gigline/gigline-backend-go/internal/domain/assignment"
	"github.com/gigline/gigline-backend-go/internal/domain/identity"
	"github.com/gigline/gigline-backend-go/internal/domain/notification"
	"github.com/gigline/gigline-backend-go/internal/domain/shift"
	"github.com/gigline/gigline-backend-go/internal/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateClockInWindow(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		now     time.Time
		early   int
		grace   int
		flag    int
		allowed bool
		code    string
		wasLate bool
		flagged bool
		lateMin int
	}{
		{
			name:    "exactly at early boundary",
			now:     start.Add(-15 * time.Minute),
			early:   15, grace: 15, flag: 30,
			allowed: true,
		},
		{
			name:  "one minute before early boundary",
			now:   start.Add(-16 * time.Minute),
			early: 15, grace: 15, flag: 30,
			code: assignment.CodeTooEarly,
		},
		{
			name:    "exactly on time",
			now:     start,
			early:   15, grace: 15, flag: 30,
			allowed: true,
		},
		{
			name:    "within grace counts as late",
			now:     start.Add(10 * time.Minute),
			early:   15, grace: 15, flag: 30,
			allowed: true,
			wasLate: true,
			lateMin: 10,
		},
		{
			name:    "exactly at grace boundary",
			now:     start.Add(15 * time.Minute),
			early:   15, grace: 15, flag: 30,
			allowed: true,
			wasLate: true,
			lateMin: 15,
		},
		{
			name:  "one minute past grace",
			now:   start.Add(16 * time.Minute),
			early: 15, grace: 15, flag: 30,
			code: assignment.CodeTooLate,
		},
		{
			name:    "very late within a generous grace gets flagged",
			now:     start.Add(45 * time.Minute),
			early:   15, grace: 60, flag: 30,
			allowed: true,
			wasLate: true,
			flagged: true,
			lateMin: 45,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := EvaluateClockInWindow(tt.now, start, tt.early, tt.grace, tt.flag)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.code, d.Code)
			assert.Equal(t, tt.wasLate, d.WasLate)
			assert.Equal(t, tt.flagged, d.LatenessFlagged)
			if tt.wasLate {
				assert.Equal(t, tt.lateMin, d.LateMinutes)
			}
		})
	}
}

func TestClockIn_Success(t *testing.T) {
	t.Parallel()

	f := newAttendanceFixture()
	a := f.seedAssignment("worker-1", 5*time.Minute, 8*time.Hour)
	ctx := authedContext(t, "worker-1", "worker")

	res, err := f.svc.ClockIn(ctx, assignment.ClockInRequest{
		AssignmentID: a.ID,
		Latitude:     -6.2000,
		Longitude:    106.8000,
		FaceCapture:  "base64data",
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, assignment.StatusCheckedIn, res.NewStatus)
	require.NotNil(t, res.Assignment)
	assert.False(t, res.Assignment.WasLate)

	stored := f.assignments.assignments[a.ID]
	assert.Equal(t, assignment.StatusCheckedIn, stored.Status)
	assert.NotNil(t, stored.ClockInAt)
	assert.Equal(t, 1, stored.ClockInAttempts)
	assert.Nil(t, stored.LastFailureReason)

	// First clock-in moves the shift to in_progress.
	assert.Equal(t, shift.StatusInProgress, f.shifts.shifts[a.ShiftID].Status)
	assert.Contains(t, f.sink.eventNames(), notification.EventWorkerCheckedIn)
	assert.Contains(t, f.sink.eventNames(), notification.EventShiftStarted)

	// Punctual arrival leaves the reliability score untouched.
	assert.Empty(t, f.reliability.adjustments)
}

func TestClockIn_TooEarly(t *testing.T) {
	t.Parallel()

	f := newAttendanceFixture()
	a := f.seedAssignment("worker-1", 40*time.Minute, 8*time.Hour)
	ctx := authedContext(t, "worker-1", "worker")

	res, err := f.svc.ClockIn(ctx, assignment.ClockInRequest{
		AssignmentID: a.ID,
		Latitude:     -6.2000,
		Longitude:    106.8000,
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	require.NotNil(t, res.RejectionReason)
	assert.Equal(t, assignment.CodeTooEarly, *res.RejectionReason)
	assert.Equal(t, assignment.StatusAssigned, res.NewStatus)

	// The attempt counter moves even though the state does not.
	stored := f.assignments.assignments[a.ID]
	assert.Equal(t, assignment.StatusAssigned, stored.Status)
	assert.Equal(t, 1, stored.ClockInAttempts)
	require.NotNil(t, stored.LastFailureReason)
	assert.Equal(t, assignment.CodeTooEarly, *stored.LastFailureReason)

	assert.Contains(t, f.sink.eventNames(), notification.EventClockInRejected)
}

func TestClockIn_TooLate(t *testing.T) {
	t.Parallel()

	f := newAttendanceFixture()
	a := f.seedAssignment("worker-1", -20*time.Minute, 8*time.Hour)
	ctx := authedContext(t, "worker-1", "worker")

	res, err := f.svc.ClockIn(ctx, assignment.ClockInRequest{
		AssignmentID: a.ID,
		Latitude:     -6.2000,
		Longitude:    106.8000,
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	require.NotNil(t, res.RejectionReason)
	assert.Equal(t, assignment.CodeTooLate, *res.RejectionReason)
}

func TestClockIn_LateWithinGrace(t *testing.T) {
	t.Parallel()

	f := newAttendanceFixture()
	a := f.seedAssignment("worker-1", -10*time.Minute, 8*time.Hour)
	ctx := authedContext(t, "worker-1", "worker")

	res, err := f.svc.ClockIn(ctx, assignment.ClockInRequest{
		AssignmentID: a.ID,
		Latitude:     -6.2000,
		Longitude:    106.8000,
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	require.NotNil(t, res.Assignment)
	assert.True(t, res.Assignment.WasLate)
	assert.False(t, res.Assignment.LatenessFlagged)

	// Standard late arrival: -2 and the lifetime counter.
	require.Len(t, f.reliability.adjustments, 1)
	assert.Equal(t, -2.0, f.reliability.adjustments[0].Delta)
	assert.Equal(t, "late_arrival", f.reliability.adjustments[0].Reason)
	assert.Equal(t, 1, f.reliability.profiles["worker-1"].LateArrivalCount)
}

func TestClockIn_FlaggedLatenessOnGenerousGrace(t *testing.T) {
	t.Parallel()

	f := newAttendanceFixture()
	a := f.seedAssignment("worker-1", -45*time.Minute, 8*time.Hour)
	f.shifts.shifts[a.ShiftID].LateGraceMinutes = 60
	ctx := authedContext(t, "worker-1", "worker")

	res, err := f.svc.ClockIn(ctx, assignment.ClockInRequest{
		AssignmentID: a.ID,
		Latitude:     -6.2000,
		Longitude:    106.8000,
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	require.NotNil(t, res.Assignment)
	assert.True(t, res.Assignment.LatenessFlagged)

	// Flagged lateness takes the harder deduction instead of the standard
	// one, never both.
	require.Len(t, f.reliability.adjustments, 1)
	assert.Equal(t, -5.0, f.reliability.adjustments[0].Delta)
	assert.Equal(t, "lateness_flagged", f.reliability.adjustments[0].Reason)
	assert.Equal(t, 1, f.reliability.profiles["worker-1"].LateArrivalCount)
}

func TestClockIn_OutsideGeofence(t *testing.T) {
	t.Parallel()

	f := newAttendanceFixture()
	a := f.seedAssignment("worker-1", 0, 8*time.Hour)
	ctx := authedContext(t, "worker-1", "worker")

	// ~111 m north of the venue against a 100 m radius.
	res, err := f.svc.ClockIn(ctx, assignment.ClockInRequest{
		AssignmentID: a.ID,
		Latitude:     -6.1990,
		Longitude:    106.8000,
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	require.NotNil(t, res.RejectionReason)
	assert.Equal(t, assignment.CodeOutsideGeofence, *res.RejectionReason)
}

func TestClockIn_ShiftRadiusOverridesDefault(t *testing.T) {
	t.Parallel()

	f := newAttendanceFixture()
	a := f.seedAssignment("worker-1", 0, 8*time.Hour)
	f.shifts.shifts[a.ShiftID].GeofenceRadiusMeters = 200
	ctx := authedContext(t, "worker-1", "worker")

	// The same ~111 m offset is inside the shift's own 200 m radius.
	res, err := f.svc.ClockIn(ctx, assignment.ClockInRequest{
		AssignmentID: a.ID,
		Latitude:     -6.1990,
		Longitude:    106.8000,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestClockIn_GeofenceBoundary(t *testing.T) {
	t.Parallel()

	// A point at exactly the radius is inside; one meter past it is not.
	workerLat, workerLng := -6.1990, 106.8000
	distance := geo.DistanceMeters(workerLat, workerLng, -6.2000, 106.8000)

	t.Run("at radius", func(t *testing.T) {
		t.Parallel()

		f := newAttendanceFixture()
		a := f.seedAssignment("worker-1", 0, 8*time.Hour)
		f.shifts.shifts[a.ShiftID].GeofenceRadiusMeters = distance
		ctx := authedContext(t, "worker-1", "worker")

		res, err := f.svc.ClockIn(ctx, assignment.ClockInRequest{
			AssignmentID: a.ID,
			Latitude:     workerLat,
			Longitude:    workerLng,
		})
		require.NoError(t, err)
		assert.True(t, res.Success)
	})

	t.Run("one meter past radius", func(t *testing.T) {
		t.Parallel()

		f := newAttendanceFixture()
		a := f.seedAssignment("worker-1", 0, 8*time.Hour)
		f.shifts.shifts[a.ShiftID].GeofenceRadiusMeters = distance - 1
		ctx := authedContext(t, "worker-1", "worker")

		res, err := f.svc.ClockIn(ctx, assignment.ClockInRequest{
			AssignmentID: a.ID,
			Latitude:     workerLat,
			Longitude:    workerLng,
		})
		require.NoError(t, err)

		assert.False(t, res.Success)
		require.NotNil(t, res.RejectionReason)
		assert.Equal(t, assignment.CodeOutsideGeofence, *res.RejectionReason)
	})
}

func TestClockIn_ManualReviewRequired(t *testing.T) {
	t.Parallel()

	f := newAttendanceFixture()
	a := f.seedAssignment("worker-1", 0, 8*time.Hour)
	f.verifier.outcome = identity.Outcome{ManualReview: true, Method: string(assignment.MethodManualReview)}
	ctx := authedContext(t, "worker-1", "worker")

	res, err := f.svc.ClockIn(ctx, assignment.ClockInRequest{
		AssignmentID: a.ID,
		Latitude:     -6.2000,
		Longitude:    106.8000,
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.True(t, res.Retryable)
	require.NotNil(t, res.RejectionReason)
	assert.Equal(t, assignment.CodeManualReviewRequired, *res.RejectionReason)
	assert.Contains(t, f.sink.eventNames(), notification.EventManualReviewRequired)
}

func TestClockIn_FaceMatchFailed(t *testing.T) {
	t.Parallel()

	f := newAttendanceFixture()
	a := f.seedAssignment("worker-1", 0, 8*time.Hour)
	f.verifier.outcome = identity.Outcome{FailureCode: assignment.CodeFaceMatchFailed}
	ctx := authedContext(t, "worker-1", "worker")

	res, err := f.svc.ClockIn(ctx, assignment.ClockInRequest{
		AssignmentID: a.ID,
		Latitude:     -6.2000,
		Longitude:    106.8000,
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.False(t, res.Retryable)
	require.NotNil(t, res.RejectionReason)
	assert.Equal(t, assignment.CodeFaceMatchFailed, *res.RejectionReason)
}

func TestClockIn_DoubleClockInConflicts(t *testing.T) {
	t.Parallel()

	f := newAttendanceFixture()
	a := f.seedAssignment("worker-1", 0, 8*time.Hour)
	ctx := authedContext(t, "worker-1", "worker")

	req := assignment.ClockInRequest{
		AssignmentID: a.ID,
		Latitude:     -6.2000,
		Longitude:    106.8000,
	}

	first, err := f.svc.ClockIn(ctx, req)
	require.NoError(t, err)
	require.True(t, first.Success)

	stored := f.assignments.assignments[a.ID]
	firstClockIn := *stored.ClockInAt

	_, err = f.svc.ClockIn(ctx, req)
	assert.ErrorIs(t, err, assignment.ErrAlreadyCheckedIn)

	// The original timestamp survives, the attempt counter records the retry.
	assert.Equal(t, firstClockIn, *stored.ClockInAt)
	assert.Equal(t, 2, stored.ClockInAttempts)
	require.NotNil(t, stored.LastFailureReason)
	assert.Equal(t, assignment.CodeAlreadyCheckedIn, *stored.LastFailureReason)
}

func TestClockIn_NotOwner(t *testing.T) {
	t.Parallel()

	f := newAttendanceFixture()
	a := f.seedAssignment("worker-1", 0, 8*time.Hour)
	ctx := authedContext(t, "worker-2", "worker")

	_, err := f.svc.ClockIn(ctx, assignment.ClockInRequest{
		AssignmentID: a.ID,
		Latitude:     -6.2000,
		Longitude:    106.8000,
	})
	assert.ErrorIs(t, err, assignment.ErrNotAssignmentOwner)
}

func TestClockIn_CancelledAssignment(t *testing.T) {
	t.Parallel()

	f := newAttendanceFixture()
	a := f.seedAssignment("worker-1", 0, 8*time.Hour)
	f.assignments.assignments[a.ID].Status = assignment.StatusCancelled
	ctx := authedContext(t, "worker-1", "worker")

	_, err := f.svc.ClockIn(ctx, assignment.ClockInRequest{
		AssignmentID: a.ID,
		Latitude:     -6.2000,
		Longitude:    106.8000,
	})
	assert.ErrorIs(t, err, assignment.ErrInvalidTransition)

	// The attempt still counts toward abuse detection.
	stored := f.assignments.assignments[a.ID]
	assert.Equal(t, 1, stored.ClockInAttempts)
	require.NotNil(t, stored.LastFailureReason)
	assert.Equal(t, assignment.CodeInvalidTransition, *stored.LastFailureReason)
}
