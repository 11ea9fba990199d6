package assignment

import (
	"time"

	"github.com/gigline/gigline-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type ClockInRequest struct {
	AssignmentID string  `json:"assignment_id"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`

	// Base64-encoded face capture; required when the shift demands biometric
	// verification, otherwise a stored photo reference may substitute.
	FaceCapture string  `json:"face_capture,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AssignmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "assignment_id",
			Message: "assignment_id is required",
		})
	}

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BreakIntervalRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Type      string `json:"type"`
}

type ClockOutRequest struct {
	AssignmentID string                 `json:"assignment_id"`
	Latitude     float64                `json:"latitude"`
	Longitude    float64                `json:"longitude"`
	Breaks       []BreakIntervalRequest `json:"breaks,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AssignmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "assignment_id",
			Message: "assignment_id is required",
		})
	}

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	for i, br := range r.Breaks {
		field := "breaks[" + validator.Itoa(i) + "]"

		start, okStart := validator.IsValidDateTime(br.StartTime)
		if !okStart {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".start_time",
				Message: "start_time must be a valid ISO8601 timestamp",
			})
		}
		end, okEnd := validator.IsValidDateTime(br.EndTime)
		if !okEnd {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".end_time",
				Message: "end_time must be a valid ISO8601 timestamp",
			})
		}
		if okStart && okEnd && !end.After(start) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "end_time must be after start_time",
			})
		}
		if !validator.IsInSlice(br.Type, []string{string(BreakTypeMeal), string(BreakTypeRest)}) {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".type",
				Message: "type must be meal or rest",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ParseBreaks converts validated break requests into domain intervals.
// Call Validate first.
func (r *ClockOutRequest) ParseBreaks() []BreakInterval {
	breaks := make([]BreakInterval, 0, len(r.Breaks))
	for _, br := range r.Breaks {
		start, _ := validator.IsValidDateTime(br.StartTime)
		end, _ := validator.IsValidDateTime(br.EndTime)
		breaks = append(breaks, BreakInterval{
			Start: start,
			End:   end,
			Type:  BreakType(br.Type),
		})
	}
	return breaks
}

// HoursBreakdown carries the derived payroll-affecting quantities.
type HoursBreakdown struct {
	GrossHours          float64 `json:"gross_hours"`
	BreakDeductionHours float64 `json:"break_deduction_hours"`
	NetHoursWorked      float64 `json:"net_hours_worked"`
	BillableHours       float64 `json:"billable_hours"`
	OvertimeHours       float64 `json:"overtime_hours"`
	OvertimeApproved    bool    `json:"overtime_approved"`

	EarlyDeparture        bool `json:"early_departure"`
	EarlyDepartureMinutes int  `json:"early_departure_minutes"`
	BreakCompliant        bool `json:"break_compliant"`
	TotalBreakMinutes     int  `json:"total_break_minutes"`
}

// TransitionResult is the structured outcome of every attendance state
// transition attempt. RejectionReason carries a stable code when Success is
// false; Warnings carry non-blocking codes on success.
type TransitionResult struct {
	Success         bool                `json:"success"`
	NewStatus       Status              `json:"new_status"`
	RejectionReason *string             `json:"rejection_reason,omitempty"`
	Retryable       bool                `json:"retryable,omitempty"`
	Warnings        []string            `json:"warnings,omitempty"`
	Hours           *HoursBreakdown     `json:"computed_hours,omitempty"`
	Assignment      *AssignmentResponse `json:"assignment,omitempty"`
}

type AssignmentResponse struct {
	ID             string `json:"id"`
	WorkerID       string `json:"worker_id"`
	ShiftID        string `json:"shift_id"`
	Status         string `json:"status"`
	ScheduledDate  string `json:"scheduled_date"`
	ScheduledStart string `json:"scheduled_start"`
	ScheduledEnd   string `json:"scheduled_end"`

	ClockInAt  *string `json:"clock_in_at,omitempty"`
	ClockOutAt *string `json:"clock_out_at,omitempty"`

	VerificationMethod     *string  `json:"verification_method,omitempty"`
	VerificationConfidence *float64 `json:"verification_confidence,omitempty"`
	LivenessPassed         *bool    `json:"liveness_passed,omitempty"`

	WasLate               bool `json:"was_late"`
	LatenessFlagged       bool `json:"lateness_flagged"`
	LateMinutes           *int `json:"late_minutes,omitempty"`
	EarlyDeparture        bool `json:"early_departure"`
	EarlyDepartureMinutes *int `json:"early_departure_minutes,omitempty"`

	GrossHours          *float64 `json:"gross_hours,omitempty"`
	BreakDeductionHours *float64 `json:"break_deduction_hours,omitempty"`
	NetHoursWorked      *float64 `json:"net_hours_worked,omitempty"`
	BillableHours       *float64 `json:"billable_hours,omitempty"`
	OvertimeHours       *float64 `json:"overtime_hours,omitempty"`

	ClockInAttempts int     `json:"clock_in_attempts"`
	PaymentStatus   *string `json:"payment_status,omitempty"`
}

type ListAssignmentsResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// FormatTime renders a timestamp the way the API reports clock events.
func FormatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}
