package attendance

import (
	"testing"
	"time"

	"github.com/gigline/gigline-backend-go/internal/domain/assignment"
	"github.com/stretchr/testify/assert"
)

func mealBreak(start time.Time, minutes int) assignment.BreakInterval {
	return assignment.BreakInterval{
		Start: start,
		End:   start.Add(time.Duration(minutes) * time.Minute),
		Type:  assignment.BreakTypeMeal,
	}
}

func TestComputeHours_StandardDay(t *testing.T) {
	t.Parallel()

	policy := assignment.DefaultHoursPolicy()
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	clockOut := start.Add(8*time.Hour + 30*time.Minute)

	h := ComputeHours(start, clockOut, start, end,
		[]assignment.BreakInterval{mealBreak(start.Add(4*time.Hour), 30)}, policy)

	assert.Equal(t, 8.5, h.GrossHours)
	assert.Equal(t, 0.5, h.BreakDeductionHours)
	assert.Equal(t, 8.0, h.NetHoursWorked)
	assert.Equal(t, 8.0, h.BillableHours)
	assert.Equal(t, 0.0, h.OvertimeHours)
	assert.True(t, h.OvertimeApproved)
	assert.True(t, h.BreakCompliant)
	assert.False(t, h.EarlyDeparture)
	assert.Equal(t, 30, h.TotalBreakMinutes)
}

func TestComputeHours_BillableCapAndOvertime(t *testing.T) {
	t.Parallel()

	policy := assignment.DefaultHoursPolicy()
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)

	// Two extra hours with a 45 minute break: net 9.25, billable capped at
	// 8.5, overtime past the auto-approve buffer.
	clockOut := start.Add(10 * time.Hour)
	h := ComputeHours(start, clockOut, start, end,
		[]assignment.BreakInterval{mealBreak(start.Add(4*time.Hour), 45)}, policy)

	assert.Equal(t, 10.0, h.GrossHours)
	assert.Equal(t, 9.25, h.NetHoursWorked)
	assert.Equal(t, 8.5, h.BillableHours)
	assert.Equal(t, 1.25, h.OvertimeHours)
	assert.False(t, h.OvertimeApproved)
}

func TestComputeHours_SmallOvertimeAutoApproved(t *testing.T) {
	t.Parallel()

	policy := assignment.DefaultHoursPolicy()
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	clockOut := start.Add(4*time.Hour + 20*time.Minute)
	h := ComputeHours(start, clockOut, start, end, nil, policy)

	assert.Equal(t, 0.33, h.OvertimeHours)
	assert.True(t, h.OvertimeApproved)
	assert.Equal(t, 4.33, h.BillableHours)
}

func TestComputeHours_BreakNoncompliance(t *testing.T) {
	t.Parallel()

	policy := assignment.DefaultHoursPolicy()
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(7 * time.Hour)

	// Seven gross hours with only 15 break minutes violates the mandatory
	// break rule but still deducts the break that was taken.
	h := ComputeHours(start, end, start, end,
		[]assignment.BreakInterval{mealBreak(start.Add(3*time.Hour), 15)}, policy)

	assert.False(t, h.BreakCompliant)
	assert.Equal(t, 0.25, h.BreakDeductionHours)
	assert.Equal(t, 6.75, h.NetHoursWorked)
}

func TestComputeHours_ShortShiftNeedsNoBreak(t *testing.T) {
	t.Parallel()

	policy := assignment.DefaultHoursPolicy()
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	h := ComputeHours(start, end, start, end, nil, policy)

	assert.True(t, h.BreakCompliant)
	assert.Equal(t, 0, h.TotalBreakMinutes)
}

func TestComputeHours_EarlyDeparture(t *testing.T) {
	t.Parallel()

	policy := assignment.DefaultHoursPolicy()
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)

	clockOut := end.Add(-45 * time.Minute)
	h := ComputeHours(start, clockOut, start, end, nil, policy)

	assert.True(t, h.EarlyDeparture)
	assert.Equal(t, 45, h.EarlyDepartureMinutes)
	assert.Equal(t, 7.25, h.NetHoursWorked)
	assert.Equal(t, 0.0, h.OvertimeHours)
}

func TestComputeHours_BreaksLongerThanShift(t *testing.T) {
	t.Parallel()

	policy := assignment.DefaultHoursPolicy()
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(1 * time.Hour)

	// Reported breaks exceeding the gross duration clamp net at zero
	// instead of going negative.
	h := ComputeHours(start, end, start, end,
		[]assignment.BreakInterval{mealBreak(start, 90)}, policy)

	assert.Equal(t, 0.0, h.NetHoursWorked)
	assert.Equal(t, 0.0, h.BillableHours)
}

func TestTotalBreakMinutes(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	breaks := []assignment.BreakInterval{
		mealBreak(start, 30),
		{Start: start.Add(3 * time.Hour), End: start.Add(3*time.Hour + 15*time.Minute), Type: assignment.BreakTypeRest},
	}
	assert.Equal(t, 45, TotalBreakMinutes(breaks))
}
