package shift

import (
	"time"

	"github.com/gigline/gigline-backend-go/internal/pkg/validator"
)

type CreateShiftRequest struct {
	Title         string  `json:"title"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	ScheduledDate string  `json:"scheduled_date"`

	ScheduledStart string `json:"scheduled_start"`
	ScheduledEnd   string `json:"scheduled_end"`

	GeofenceRadiusMeters    float64  `json:"geofence_radius_meters,omitempty"`
	EarlyClockInMinutes     int      `json:"early_clock_in_minutes,omitempty"`
	LateGraceMinutes        int      `json:"late_grace_minutes,omitempty"`
	RequireFaceVerification bool     `json:"require_face_verification,omitempty"`
	RequiredSkills          []string `json:"required_skills,omitempty"`
	Capacity                int      `json:"capacity"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
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
	if _, ok := validator.IsValidDate(r.ScheduledDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_date",
			Message: "scheduled_date must be a valid date (YYYY-MM-DD)",
		})
	}

	start, okStart := validator.IsValidDateTime(r.ScheduledStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_start",
			Message: "scheduled_start must be a valid ISO8601 timestamp",
		})
	}
	end, okEnd := validator.IsValidDateTime(r.ScheduledEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_end",
			Message: "scheduled_end must be a valid ISO8601 timestamp",
		})
	}
	if okStart && okEnd && !end.After(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_end",
			Message: "scheduled_end must be after scheduled_start",
		})
	}

	if r.GeofenceRadiusMeters < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "geofence_radius_meters",
			Message: "geofence_radius_meters must not be negative",
		})
	}
	if r.EarlyClockInMinutes < 0 || r.LateGraceMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in_window",
			Message: "clock-in window minutes must not be negative",
		})
	}
	if r.Capacity < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "capacity",
			Message: "capacity must be at least 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ShiftResponse struct {
	ID             string  `json:"id"`
	BusinessID     string  `json:"business_id"`
	Title          string  `json:"title"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	ScheduledDate  string  `json:"scheduled_date"`
	ScheduledStart string  `json:"scheduled_start"`
	ScheduledEnd   string  `json:"scheduled_end"`

	GeofenceRadiusMeters    float64  `json:"geofence_radius_meters"`
	EarlyClockInMinutes     int      `json:"early_clock_in_minutes"`
	LateGraceMinutes        int      `json:"late_grace_minutes"`
	RequireFaceVerification bool     `json:"require_face_verification"`
	RequiredSkills          []string `json:"required_skills"`
	Capacity                int      `json:"capacity"`

	Status    string  `json:"status"`
	StartedAt *string `json:"started_at,omitempty"`
}

type ListShiftsResponse struct {
	TotalCount int64           `json:"total_count"`
	Shifts     []ShiftResponse `json:"shifts"`
}

// MapToResponse renders a shift for the API.
func MapToResponse(s Shift) ShiftResponse {
	resp := ShiftResponse{
		ID:                      s.ID,
		BusinessID:              s.BusinessID,
		Title:                   s.Title,
		Latitude:                s.Latitude,
		Longitude:               s.Longitude,
		ScheduledDate:           s.ScheduledDate.Format("2006-01-02"),
		ScheduledStart:          s.ScheduledStart.UTC().Format(time.RFC3339),
		ScheduledEnd:            s.ScheduledEnd.UTC().Format(time.RFC3339),
		GeofenceRadiusMeters:    s.GeofenceRadiusMeters,
		EarlyClockInMinutes:     s.EarlyClockInMinutes,
		LateGraceMinutes:        s.LateGraceMinutes,
		RequireFaceVerification: s.RequireFaceVerification,
		RequiredSkills:          s.RequiredSkills,
		Capacity:                s.Capacity,
		Status:                  string(s.Status),
	}
	if s.StartedAt != nil {
		started := s.StartedAt.UTC().Format(time.RFC3339)
		resp.StartedAt = &started
	}
	return resp
}
