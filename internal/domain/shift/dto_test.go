package shift

import (
	"testing"

	"github.com/gigline/gigline-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() CreateShiftRequest {
	return CreateShiftRequest{
		Title:          "Warehouse picker",
		Latitude:       -6.2,
		Longitude:      106.8,
		ScheduledDate:  "2026-09-01",
		ScheduledStart: "2026-09-01T09:00:00Z",
		ScheduledEnd:   "2026-09-01T17:00:00Z",
		Capacity:       2,
	}
}

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	return errs.ToMap()
}

func TestCreateShiftRequestValidate_OK(t *testing.T) {
	t.Parallel()

	req := validCreateRequest()
	assert.NoError(t, req.Validate())
}

func TestCreateShiftRequestValidate_ScheduledDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{name: "calendar date", date: "2026-09-01", wantErr: false},
		{name: "empty", date: "", wantErr: true},
		{name: "timestamp instead of date", date: "2026-09-01T09:00:00Z", wantErr: true},
		{name: "wrong layout", date: "01-09-2026", wantErr: true},
		{name: "impossible day", date: "2026-02-30", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := validCreateRequest()
			req.ScheduledDate = tt.date

			err := req.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			fields := fieldMessages(t, err)
			assert.Contains(t, fields, "scheduled_date")
		})
	}
}

func TestCreateShiftRequestValidate_CollectsAllFieldErrors(t *testing.T) {
	t.Parallel()

	req := CreateShiftRequest{
		Title:          "  ",
		Latitude:       91,
		Longitude:      181,
		ScheduledDate:  "not-a-date",
		ScheduledStart: "2026-09-01T17:00:00Z",
		ScheduledEnd:   "2026-09-01T09:00:00Z",
		Capacity:       0,
	}
	req.GeofenceRadiusMeters = -1
	req.EarlyClockInMinutes = -5

	fields := fieldMessages(t, req.Validate())
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "latitude")
	assert.Contains(t, fields, "longitude")
	assert.Contains(t, fields, "scheduled_date")
	assert.Contains(t, fields, "scheduled_end")
	assert.Contains(t, fields, "geofence_radius_meters")
	assert.Contains(t, fields, "clock_in_window")
	assert.Contains(t, fields, "capacity")
}
