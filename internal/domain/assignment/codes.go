package assignment

// Stable rejection and warning codes, suitable for client-side messaging
// without re-deriving policy.
const (
	CodeTooEarly                 = "TOO_EARLY"
	CodeTooLate                  = "TOO_LATE"
	CodeOutsideGeofence          = "OUTSIDE_GEOFENCE"
	CodeFaceMatchFailed          = "FACE_MATCH_FAILED"
	CodeLivenessFailed           = "LIVENESS_FAILED"
	CodeManualReviewRequired     = "MANUAL_REVIEW_REQUIRED"
	CodeVerificationUnavailable  = "VERIFICATION_UNAVAILABLE"
	CodeAlreadyCheckedIn         = "ALREADY_CHECKED_IN"
	CodeInvalidTransition        = "INVALID_TRANSITION"
	CodeBreakNoncompliantWarning = "BREAK_NONCOMPLIANT_WARNING"
	CodeOvertimeUnapproved       = "OVERTIME_PENDING_APPROVAL"
)
