package shift

import (
	"context"
)

// ShiftService defines business logic for shift publishing and discovery.
type ShiftService interface {
	// Create publishes a new open shift owned by the calling business
	Create(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)

	Get(ctx context.Context, id string) (ShiftResponse, error)

	// ListOpen returns open shifts ordered by scheduled start
	ListOpen(ctx context.Context, limit, offset int) (ListShiftsResponse, error)
}
