package identity

import (
	"context"
)

// Capture is the biometric evidence submitted at clock-in.
type Capture struct {
	// Base64-encoded image data.
	Image string

	// Reference to an already-uploaded photo, used by the photo_manual
	// fallback when biometrics are disabled.
	PhotoURL *string
}

// Decision is the provider's verdict on a capture against the worker's
// enrolled template.
type Decision struct {
	Match               bool
	Confidence          float64
	Liveness            bool
	AllowManualOverride bool
	Reason              string
}

// Provider abstracts the external face-match and liveness service. Verify
// must respect ctx cancellation; callers wrap it in a bounded timeout.
type Provider interface {
	// IsEnrolled reports whether the worker has a biometric template on file
	IsEnrolled(ctx context.Context, workerID string) (bool, error)

	// Verify compares the capture against the worker's enrolled template
	Verify(ctx context.Context, workerID string, capture Capture) (Decision, error)
}
