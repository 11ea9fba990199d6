package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gigline/gigline-backend-go/internal/domain/assignment"
	"github.com/gigline/gigline-backend-go/internal/domain/identity"
	"github.com/gigline/gigline-backend-go/internal/domain/notification"
	"github.com/gigline/gigline-backend-go/internal/pkg/geo"
)

// WindowDecision is the outcome of the clock-in time-window check.
type WindowDecision struct {
	Allowed bool

	// Code is a stable rejection code when Allowed is false.
	Code string

	WasLate         bool
	LatenessFlagged bool
	LateMinutes     int
}

// EvaluateClockInWindow compares now against the scheduled start. Arrivals
// up to earlyMinutes before the start and up to graceMinutes after it are
// accepted; a late arrival beyond flagMinutes is still accepted when the
// grace permits, but carries the harder lateness flag.
func EvaluateClockInWindow(now, scheduledStart time.Time, earlyMinutes, graceMinutes, flagMinutes int) WindowDecision {
	delta := scheduledStart.Sub(now).Minutes()

	if delta > float64(earlyMinutes) {
		return WindowDecision{Code: assignment.CodeTooEarly}
	}
	if delta >= 0 {
		return WindowDecision{Allowed: true}
	}

	lateness := -delta
	if lateness > float64(graceMinutes) {
		return WindowDecision{Code: assignment.CodeTooLate}
	}

	return WindowDecision{
		Allowed:         true,
		WasLate:         true,
		LatenessFlagged: lateness > float64(flagMinutes),
		LateMinutes:     int(math.Round(lateness)),
	}
}

// ClockIn implements assignment.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, req assignment.ClockInRequest) (assignment.TransitionResult, error) {
	if err := req.Validate(); err != nil {
		return assignment.TransitionResult{}, err
	}

	workerID, _, err := callerFromContext(ctx)
	if err != nil {
		return assignment.TransitionResult{}, err
	}

	a, err := s.AssignmentRepository.GetByID(ctx, req.AssignmentID)
	if err != nil {
		return assignment.TransitionResult{}, err
	}
	if a.WorkerID != workerID {
		return assignment.TransitionResult{}, assignment.ErrNotAssignmentOwner
	}

	switch a.Status {
	case assignment.StatusAssigned:
	case assignment.StatusCheckedIn:
		reason := assignment.CodeAlreadyCheckedIn
		if err := s.AssignmentRepository.IncrementClockInAttempts(ctx, a.ID, &reason); err != nil {
			return assignment.TransitionResult{}, fmt.Errorf("failed to record clock-in attempt: %w", err)
		}
		return assignment.TransitionResult{}, assignment.ErrAlreadyCheckedIn
	default:
		// Abuse detection counts every attempt, including those against a
		// cancelled or completed assignment.
		reason := assignment.CodeInvalidTransition
		if err := s.AssignmentRepository.IncrementClockInAttempts(ctx, a.ID, &reason); err != nil {
			return assignment.TransitionResult{}, fmt.Errorf("failed to record clock-in attempt: %w", err)
		}
		return assignment.TransitionResult{}, assignment.ErrInvalidTransition
	}

	sh, err := s.shifts.GetByID(ctx, a.ShiftID)
	if err != nil {
		return assignment.TransitionResult{}, err
	}

	now := time.Now().UTC()
	window := EvaluateClockInWindow(now, a.ScheduledStart,
		s.earlyWindowMinutes(sh), s.graceMinutes(sh), s.cfg.LatenessFlagMinutes)
	if !window.Allowed {
		return s.rejectClockIn(ctx, a, window.Code, false)
	}

	distance := geo.DistanceMeters(req.Latitude, req.Longitude, sh.Latitude, sh.Longitude)
	if distance > s.geofenceRadius(sh) {
		return s.rejectClockIn(ctx, a, assignment.CodeOutsideGeofence, false)
	}

	outcome, err := s.verifier.VerifyClockIn(ctx, workerID, identity.Capture{
		Image:    req.FaceCapture,
		PhotoURL: req.PhotoURL,
	}, sh.RequireFaceVerification)
	if err != nil && !outcome.ManualReview && outcome.FailureCode == "" {
		return assignment.TransitionResult{}, fmt.Errorf("identity verification: %w", err)
	}

	if outcome.ManualReview {
		res, err := s.rejectClockIn(ctx, a, assignment.CodeManualReviewRequired, true)
		if err != nil {
			return assignment.TransitionResult{}, err
		}
		s.sink.Notify(ctx, notification.EventManualReviewRequired, &workerID, map[string]any{
			"assignment_id": a.ID,
			"shift_id":      a.ShiftID,
		})
		return res, nil
	}
	if !outcome.Verified {
		retryable := outcome.FailureCode == assignment.CodeVerificationUnavailable
		return s.rejectClockIn(ctx, a, outcome.FailureCode, retryable)
	}

	rec := assignment.ClockInRecord{
		At:              now,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Method:          assignment.VerificationMethod(outcome.Method),
		Confidence:      outcome.Confidence,
		LivenessPassed:  outcome.Liveness,
		WasLate:         window.WasLate,
		LatenessFlagged: window.LatenessFlagged,
		LateMinutes:     window.LateMinutes,
	}

	var shiftStarted bool

	// Attempt counter, state transition, reliability delta and the shift
	// side effect commit together or not at all.
	err = s.db.InTx(ctx, func(ctx context.Context) error {
		if err := s.AssignmentRepository.LockShift(ctx, a.ShiftID); err != nil {
			return fmt.Errorf("failed to lock shift: %w", err)
		}
		if err := s.AssignmentRepository.IncrementClockInAttempts(ctx, a.ID, nil); err != nil {
			return fmt.Errorf("failed to record clock-in attempt: %w", err)
		}

		ok, err := s.AssignmentRepository.RecordClockIn(ctx, a.ID, rec)
		if err != nil {
			return fmt.Errorf("failed to record clock-in: %w", err)
		}
		if !ok {
			return assignment.ErrAlreadyCheckedIn
		}

		// Lateness deductions are mutually exclusive; the lifetime counter
		// moves for either.
		if window.LatenessFlagged {
			if _, err := s.reliability.Adjust(ctx, workerID, s.policy.LatenessFlaggedPenalty, "lateness_flagged"); err != nil {
				return fmt.Errorf("failed to adjust reliability: %w", err)
			}
		} else if window.WasLate {
			if _, err := s.reliability.Adjust(ctx, workerID, s.policy.LatePenalty, "late_arrival"); err != nil {
				return fmt.Errorf("failed to adjust reliability: %w", err)
			}
		}
		if window.WasLate {
			if err := s.reliability.IncrementLateArrival(ctx, workerID); err != nil {
				return fmt.Errorf("failed to increment late arrivals: %w", err)
			}
		}

		started, err := s.shifts.MarkInProgress(ctx, a.ShiftID, now)
		if err != nil {
			return fmt.Errorf("failed to mark shift in progress: %w", err)
		}
		shiftStarted = started
		return nil
	})
	if err != nil {
		return assignment.TransitionResult{}, err
	}

	a.Status = assignment.StatusCheckedIn
	a.ClockInAt = &rec.At
	a.ClockInLatitude = &rec.Latitude
	a.ClockInLongitude = &rec.Longitude
	a.VerificationMethod = &rec.Method
	a.VerificationConfidence = rec.Confidence
	a.LivenessPassed = rec.LivenessPassed
	a.WasLate = rec.WasLate
	a.LatenessFlagged = rec.LatenessFlagged
	if rec.WasLate {
		a.LateMinutes = &rec.LateMinutes
	}
	a.ClockInAttempts++
	a.LastFailureReason = nil

	s.sink.Notify(ctx, notification.EventWorkerCheckedIn, &workerID, map[string]any{
		"assignment_id": a.ID,
		"shift_id":      a.ShiftID,
		"clock_in_at":   rec.At.Format(time.RFC3339),
		"was_late":      rec.WasLate,
	})
	if shiftStarted {
		s.sink.Notify(ctx, notification.EventShiftStarted, nil, map[string]any{
			"shift_id":   a.ShiftID,
			"started_at": now.Format(time.RFC3339),
		})
	}

	resp := mapAssignmentToResponse(a)
	return assignment.TransitionResult{
		Success:    true,
		NewStatus:  assignment.StatusCheckedIn,
		Assignment: &resp,
	}, nil
}

// rejectClockIn records a failed attempt and returns the policy rejection.
// The attempt counter moves even though the assignment state does not.
func (s *AttendanceServiceImpl) rejectClockIn(ctx context.Context, a assignment.ShiftAssignment, code string, retryable bool) (assignment.TransitionResult, error) {
	if err := s.AssignmentRepository.IncrementClockInAttempts(ctx, a.ID, &code); err != nil {
		return assignment.TransitionResult{}, fmt.Errorf("failed to record clock-in attempt: %w", err)
	}

	slog.Warn("clock-in rejected",
		"assignment_id", a.ID,
		"worker_id", a.WorkerID,
		"reason", code,
		"attempts", a.ClockInAttempts+1,
	)

	s.sink.Notify(ctx, notification.EventClockInRejected, &a.WorkerID, map[string]any{
		"assignment_id": a.ID,
		"shift_id":      a.ShiftID,
		"reason":        code,
	})

	return assignment.TransitionResult{
		NewStatus:       a.Status,
		RejectionReason: &code,
		Retryable:       retryable,
	}, nil
}
