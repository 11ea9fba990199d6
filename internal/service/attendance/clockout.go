package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gigline/gigline-backend-go/internal/domain/assignment"
	"github.com/gigline/gigline-backend-go/internal/domain/notification"
)

// ClockOut implements assignment.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req assignment.ClockOutRequest) (assignment.TransitionResult, error) {
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
	if a.Status != assignment.StatusCheckedIn || a.ClockInAt == nil {
		return assignment.TransitionResult{}, assignment.ErrNotCheckedIn
	}

	breaks := req.ParseBreaks()
	now := time.Now().UTC()
	hours := ComputeHours(*a.ClockInAt, now, a.ScheduledStart, a.ScheduledEnd, breaks, s.policy)

	earlyFlagged := hours.EarlyDeparture &&
		hours.EarlyDepartureMinutes > s.policy.EarlyDepartureFlagMinutes

	rec := assignment.ClockOutRecord{
		At:            now,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Breaks:        breaks,
		Hours:         hours,
		PaymentStatus: assignment.PaymentPendingVerification,
	}

	var shiftCompleted bool

	// Hours, reliability deltas and the shift completion check commit in one
	// transaction under the shift lock, so concurrent peers disagreeing about
	// "who clocked out last" cannot both skip the completion.
	err = s.db.InTx(ctx, func(ctx context.Context) error {
		if err := s.AssignmentRepository.LockShift(ctx, a.ShiftID); err != nil {
			return fmt.Errorf("failed to lock shift: %w", err)
		}

		ok, err := s.AssignmentRepository.RecordClockOut(ctx, a.ID, rec)
		if err != nil {
			return fmt.Errorf("failed to record clock-out: %w", err)
		}
		if !ok {
			return assignment.ErrNotCheckedIn
		}

		// Unlike the clock-in deductions these stack.
		if earlyFlagged {
			if _, err := s.reliability.Adjust(ctx, workerID, s.policy.EarlyDeparturePenalty, "early_departure"); err != nil {
				return fmt.Errorf("failed to adjust reliability: %w", err)
			}
			if err := s.reliability.IncrementEarlyDeparture(ctx, workerID); err != nil {
				return fmt.Errorf("failed to increment early departures: %w", err)
			}
		}
		if !hours.BreakCompliant {
			if _, err := s.reliability.Adjust(ctx, workerID, s.policy.BreakViolationPenalty, "break_noncompliance"); err != nil {
				return fmt.Errorf("failed to adjust reliability: %w", err)
			}
		}

		// Hours are final, so the assignment completes and is archived for
		// audit; settlement stays pending with the payroll collaborator.
		promoted, err := s.AssignmentRepository.UpdateStatus(ctx, a.ID, assignment.StatusCheckedOut, assignment.StatusCompleted)
		if err != nil {
			return fmt.Errorf("failed to complete assignment: %w", err)
		}
		if !promoted {
			return assignment.ErrInvalidTransition
		}
		if err := s.AssignmentRepository.Archive(ctx, a.ID, now); err != nil {
			return fmt.Errorf("failed to archive assignment: %w", err)
		}

		if err := s.workers.SetLastCompletedShift(ctx, workerID, now); err != nil {
			return fmt.Errorf("failed to record shift completion: %w", err)
		}

		outstanding, err := s.AssignmentRepository.CountOutstandingByShift(ctx, a.ShiftID)
		if err != nil {
			return fmt.Errorf("failed to count outstanding assignments: %w", err)
		}
		if outstanding == 0 {
			completed, err := s.shifts.MarkCompleted(ctx, a.ShiftID)
			if err != nil {
				return fmt.Errorf("failed to complete shift: %w", err)
			}
			shiftCompleted = completed
		}
		return nil
	})
	if err != nil {
		return assignment.TransitionResult{}, err
	}

	var warnings []string
	if !hours.BreakCompliant {
		warnings = append(warnings, assignment.CodeBreakNoncompliantWarning)
		slog.Warn("break non-compliance at clock-out",
			"assignment_id", a.ID,
			"worker_id", workerID,
			"total_break_minutes", hours.TotalBreakMinutes,
		)
	}
	if !hours.OvertimeApproved {
		warnings = append(warnings, assignment.CodeOvertimeUnapproved)
	}

	a.Status = assignment.StatusCompleted
	a.ClockOutAt = &rec.At
	a.ClockOutLatitude = &rec.Latitude
	a.ClockOutLongitude = &rec.Longitude
	a.Breaks = breaks
	a.GrossHours = &hours.GrossHours
	a.BreakDeductionHours = &hours.BreakDeductionHours
	a.NetHoursWorked = &hours.NetHoursWorked
	a.BillableHours = &hours.BillableHours
	a.OvertimeHours = &hours.OvertimeHours
	a.OvertimeApproved = &hours.OvertimeApproved
	a.EarlyDeparture = hours.EarlyDeparture
	if hours.EarlyDeparture {
		a.EarlyDepartureMinutes = &hours.EarlyDepartureMinutes
	}
	a.BreakCompliant = &hours.BreakCompliant
	payment := assignment.PaymentPendingVerification
	a.PaymentStatus = &payment

	s.sink.Notify(ctx, notification.EventWorkerCheckedOut, &workerID, map[string]any{
		"assignment_id":  a.ID,
		"shift_id":       a.ShiftID,
		"clock_out_at":   rec.At.Format(time.RFC3339),
		"billable_hours": hours.BillableHours,
	})
	if shiftCompleted {
		s.sink.Notify(ctx, notification.EventShiftCompleted, nil, map[string]any{
			"shift_id": a.ShiftID,
		})
	}

	resp := mapAssignmentToResponse(a)
	return assignment.TransitionResult{
		Success:    true,
		NewStatus:  a.Status,
		Warnings:   warnings,
		Hours:      &hours,
		Assignment: &resp,
	}, nil
}
