package attendance

import (
	"math"
	"time"

	"github.com/gigline/gigline-backend-go/internal/domain/assignment"
)

// TotalBreakMinutes sums the reported break intervals in whole minutes.
func TotalBreakMinutes(breaks []assignment.BreakInterval) int {
	total := 0
	for _, b := range breaks {
		total += b.Minutes()
	}
	return total
}

// ComputeHours derives the payroll-affecting hour fields from the actual
// clock events, the scheduled window, and the reported breaks:
//
//   - gross is wall-clock time between clock-in and clock-out
//   - net is gross minus the break deduction
//   - billable caps net at the scheduled duration plus the billable buffer;
//     anything past the buffer waits on explicit approval
//   - overtime at or below the auto-approve threshold needs no review
//
// Break compliance follows the mandatory-break rule: a gross duration at or
// above the threshold requires the mandatory minimum of break minutes.
func ComputeHours(clockIn, clockOut, scheduledStart, scheduledEnd time.Time, breaks []assignment.BreakInterval, policy assignment.HoursPolicy) assignment.HoursBreakdown {
	gross := clockOut.Sub(clockIn).Hours()
	breakMinutes := TotalBreakMinutes(breaks)
	breakDeduction := float64(breakMinutes) / 60

	net := gross - breakDeduction
	if net < 0 {
		net = 0
	}

	scheduled := scheduledEnd.Sub(scheduledStart).Hours()
	billable := math.Min(net, scheduled+policy.BillableBufferHours)
	overtime := math.Max(0, net-scheduled)

	required := gross >= policy.MandatoryBreakGrossHours

	breakdown := assignment.HoursBreakdown{
		GrossHours:          roundHours(gross),
		BreakDeductionHours: roundHours(breakDeduction),
		NetHoursWorked:      roundHours(net),
		BillableHours:       roundHours(billable),
		OvertimeHours:       roundHours(overtime),
		OvertimeApproved:    overtime <= policy.OvertimeAutoApproveHours,
		BreakCompliant:      !required || breakMinutes >= policy.MandatoryBreakMinutes,
		TotalBreakMinutes:   breakMinutes,
	}

	if clockOut.Before(scheduledEnd) {
		breakdown.EarlyDeparture = true
		breakdown.EarlyDepartureMinutes = int(math.Round(scheduledEnd.Sub(clockOut).Minutes()))
	}

	return breakdown
}

// roundHours keeps two decimals so minute-grained clock arithmetic does not
// leak float noise into stored payroll fields.
func roundHours(v float64) float64 {
	return math.Round(v*100) / 100
}
