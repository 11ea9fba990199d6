package identity

import "errors"

var (
	ErrNotEnrolled         = errors.New("worker has no biometric template enrolled")
	ErrFaceMismatch        = errors.New("face match confidence below minimum")
	ErrLivenessFailed      = errors.New("liveness check failed")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
	ErrCaptureRequired     = errors.New("a face capture is required for this shift")
)
