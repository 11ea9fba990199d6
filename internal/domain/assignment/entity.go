package assignment

import (
	"time"
)

type BreakType string

const (
	BreakTypeMeal BreakType = "meal"
	BreakTypeRest BreakType = "rest"
)

// BreakInterval is a reported break. End is strictly after Start.
type BreakInterval struct {
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
	Type  BreakType `json:"type"`
}

// Minutes returns the break length in whole minutes.
func (b BreakInterval) Minutes() int {
	return int(b.End.Sub(b.Start).Minutes())
}

type VerificationMethod string

const (
	MethodFaceBiometric VerificationMethod = "face_biometric"
	MethodManualReview  VerificationMethod = "manual_review"
	MethodPhotoManual   VerificationMethod = "photo_manual"
)

type PaymentStatus string

const (
	PaymentPendingVerification PaymentStatus = "pending_verification"
)

// ShiftAssignment tracks one worker's engagement on one shift from
// acceptance through verified attendance to final hours. GPS and
// verification fields are populated only on successful clock-in; the hour
// fields only after clock-out. Assignments are archived, never deleted.
type ShiftAssignment struct {
	ID            string
	WorkerID      string
	ShiftID       string
	ApplicationID *string
	Status        Status

	// Scheduled window, denormalized from the shift at acceptance so hour
	// calculations stay stable even if the shift is later edited.
	ScheduledDate  time.Time
	ScheduledStart time.Time
	ScheduledEnd   time.Time

	ClockInAt         *time.Time
	ClockInLatitude   *float64
	ClockInLongitude  *float64
	ClockOutAt        *time.Time
	ClockOutLatitude  *float64
	ClockOutLongitude *float64

	VerificationMethod     *VerificationMethod
	VerificationConfidence *float64
	LivenessPassed         *bool

	Breaks []BreakInterval

	GrossHours          *float64
	BreakDeductionHours *float64
	NetHoursWorked      *float64
	BillableHours       *float64
	OvertimeHours       *float64
	OvertimeApproved    *bool

	WasLate               bool
	LatenessFlagged       bool
	LateMinutes           *int
	EarlyDeparture        bool
	EarlyDepartureMinutes *int
	BreakCompliant        *bool

	ClockInAttempts   int
	LastFailureReason *string

	PaymentStatus *PaymentStatus

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ArchivedAt *time.Time
}

// ScheduledHours returns the scheduled duration as a real-valued hour count.
func (a ShiftAssignment) ScheduledHours() float64 {
	return a.ScheduledEnd.Sub(a.ScheduledStart).Hours()
}
