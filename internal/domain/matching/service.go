package matching

import (
	"context"
)

// ApplicationService defines business logic for the application lifecycle:
// scoring, ranking, withdrawal and acceptance.
type ApplicationService interface {
	// Apply scores the worker against the shift, records the application and
	// re-ranks the shift's pending set
	Apply(ctx context.Context, req ApplyRequest) (ApplicationResponse, error)

	// Withdraw withdraws the caller's pending application and re-ranks
	Withdraw(ctx context.Context, applicationID string) error

	// Accept accepts an application, creates the shift assignment and
	// rejects the remaining pending applications (business/auto-assignment)
	Accept(ctx context.Context, applicationID string) (ApplicationResponse, error)

	// ListForShift returns the ranked pending applications for a shift
	ListForShift(ctx context.Context, shiftID string) (ListApplicationsResponse, error)

	// MyApplications returns the caller's applications
	MyApplications(ctx context.Context, limit, offset int) (ListApplicationsResponse, error)
}
