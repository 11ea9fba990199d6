package response

import (
	"errors"
	"net/http"

	"github.com/gigline/gigline-backend-go/internal/domain/assignment"
	"github.com/gigline/gigline-backend-go/internal/domain/auth"
	"github.com/gigline/gigline-backend-go/internal/domain/matching"
	"github.com/gigline/gigline-backend-go/internal/domain/shift"
	"github.com/gigline/gigline-backend-go/internal/domain/worker"
	"github.com/gigline/gigline-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Policy rejections never
// arrive here; they are carried as structured results. Everything below is
// an auth failure, a lookup miss, an integrity conflict, or a genuine 500.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")

	// Worker
	case errors.Is(err, worker.ErrWorkerNotFound):
		NotFound(w, "Worker not found")
	case errors.Is(err, worker.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, worker.ErrProfileNotFound):
		NotFound(w, "Reliability profile not found")

	// Shift
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftNotOpen):
		Conflict(w, "Shift is not open for applications")
	case errors.Is(err, shift.ErrShiftFull):
		Conflict(w, "Shift has no remaining slots")

	// Matching
	case errors.Is(err, matching.ErrApplicationNotFound):
		NotFound(w, "Application not found")
	case errors.Is(err, matching.ErrDuplicateApplication):
		Conflict(w, "An active application for this shift already exists")
	case errors.Is(err, matching.ErrApplicationNotPending):
		Conflict(w, "Application is no longer pending")
	case errors.Is(err, matching.ErrNotApplicationOwner):
		Forbidden(w, "Application belongs to another worker")

	// Assignment integrity
	case errors.Is(err, assignment.ErrAssignmentNotFound):
		NotFound(w, "Assignment not found")
	case errors.Is(err, assignment.ErrAssignmentExists):
		Conflict(w, "Worker is already assigned to this shift")
	case errors.Is(err, assignment.ErrNotAssignmentOwner):
		Forbidden(w, "Assignment belongs to another worker")
	case errors.Is(err, assignment.ErrAlreadyCheckedIn):
		Conflict(w, "Assignment is already checked in")
	case errors.Is(err, assignment.ErrNotCheckedIn):
		Conflict(w, "Assignment is not checked in")
	case errors.Is(err, assignment.ErrInvalidTransition):
		Conflict(w, "Invalid assignment state transition")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
