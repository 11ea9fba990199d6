package identity

import (
	"context"
)

// Outcome is the verifier's conclusion for a clock-in attempt.
type Outcome struct {
	Verified bool

	// ManualReview marks the attempt as retryable pending human review
	// instead of a hard rejection.
	ManualReview bool

	Method     string
	Confidence *float64
	Liveness   *bool

	// FailureCode is a stable rejection code when Verified is false and
	// ManualReview is false.
	FailureCode string
}

// Verifier runs the configured verification strategy for a clock-in.
type Verifier interface {
	VerifyClockIn(ctx context.Context, workerID string, capture Capture, requireFace bool) (Outcome, error)
}
