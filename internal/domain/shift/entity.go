package shift

import (
	"time"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type Shift struct {
	ID         string
	BusinessID string
	Title      string

	Latitude  float64
	Longitude float64

	// Scheduled window. ScheduledDate is the working day; start and end are
	// absolute timestamps (end may fall on the next day for overnight shifts).
	ScheduledDate  time.Time
	ScheduledStart time.Time
	ScheduledEnd   time.Time

	GeofenceRadiusMeters    float64
	EarlyClockInMinutes     int
	LateGraceMinutes        int
	RequireFaceVerification bool

	RequiredSkills []string
	Capacity       int

	Status    Status
	StartedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduledHours returns the scheduled duration as a real-valued hour count.
func (s Shift) ScheduledHours() float64 {
	return s.ScheduledEnd.Sub(s.ScheduledStart).Hours()
}
