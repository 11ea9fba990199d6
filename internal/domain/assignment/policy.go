package assignment

// HoursPolicy names the constants behind hour derivation and the attendance
// penalties so they are testable and adjustable without touching control flow.
type HoursPolicy struct {
	// Worked time beyond the scheduled duration that is billable without
	// separate approval.
	BillableBufferHours float64

	// Overtime at or below this is auto-approved; anything above is flagged
	// for external review.
	OvertimeAutoApproveHours float64

	// Gross hours at or above this require a mandatory break.
	MandatoryBreakGrossHours float64
	MandatoryBreakMinutes    int

	// Departures earlier than this many minutes before the scheduled end
	// count against the worker's lifetime record.
	EarlyDepartureFlagMinutes int

	// Reliability deltas. Late deltas are mutually exclusive; the clock-out
	// deltas stack.
	LatePenalty            float64
	LatenessFlaggedPenalty float64
	EarlyDeparturePenalty  float64
	BreakViolationPenalty  float64
}

func DefaultHoursPolicy() HoursPolicy {
	return HoursPolicy{
		BillableBufferHours:       0.5,
		OvertimeAutoApproveHours:  0.5,
		MandatoryBreakGrossHours:  6,
		MandatoryBreakMinutes:     30,
		EarlyDepartureFlagMinutes: 30,
		LatePenalty:               -2,
		LatenessFlaggedPenalty:    -5,
		EarlyDeparturePenalty:     -3,
		BreakViolationPenalty:     -2,
	}
}
