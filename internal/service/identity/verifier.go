package identity

import (
	"context"
	"log/slog"

	"github.com/gigline/gigline-backend-go/internal/config"
	"github.com/gigline/gigline-backend-go/internal/domain/assignment"
	"github.com/gigline/gigline-backend-go/internal/domain/identity"
)

type VerifierImpl struct {
	provider identity.Provider
	policy   identity.OverridePolicy
	cfg      config.IdentityConfig
}

func NewVerifier(provider identity.Provider, policy identity.OverridePolicy, cfg config.IdentityConfig) identity.Verifier {
	return &VerifierImpl{
		provider: provider,
		policy:   policy,
		cfg:      cfg,
	}
}

// VerifyClockIn implements identity.Verifier.
//
// The outcome falls into one of four shapes:
//   - verified via biometrics (method face_biometric)
//   - verified without biometrics (method photo_manual, flagged for review)
//   - verified despite a provider outage the policy tolerates (manual_review)
//   - not verified, either retryable (manual review pending) or with a
//     stable failure code
func (v *VerifierImpl) VerifyClockIn(ctx context.Context, workerID string, capture identity.Capture, requireFace bool) (identity.Outcome, error) {
	if !v.cfg.BiometricEnabled {
		if requireFace {
			// The shift demands face verification but the platform has it
			// switched off; a human has to look at the photo record.
			return identity.Outcome{ManualReview: true, Method: string(assignment.MethodManualReview)}, nil
		}
		return identity.Outcome{Verified: true, Method: string(assignment.MethodPhotoManual)}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, v.cfg.ProviderTimeout)
	defer cancel()

	enrolled, err := v.provider.IsEnrolled(ctx, workerID)
	if err != nil {
		return v.providerFailure(workerID, err), nil
	}
	if !enrolled {
		if requireFace {
			return identity.Outcome{ManualReview: true, Method: string(assignment.MethodManualReview)}, nil
		}
		return identity.Outcome{Verified: true, Method: string(assignment.MethodPhotoManual)}, nil
	}

	if capture.Image == "" {
		// Enrolled workers must submit a capture; nothing to compare.
		return identity.Outcome{FailureCode: assignment.CodeFaceMatchFailed}, identity.ErrCaptureRequired
	}

	decision, err := v.provider.Verify(ctx, workerID, capture)
	if err != nil {
		return v.providerFailure(workerID, err), nil
	}

	confidence := decision.Confidence
	liveness := decision.Liveness

	if !decision.Match || decision.Confidence < v.cfg.MinConfidence {
		if v.policy.AllowManualReview(decision, nil) {
			return identity.Outcome{
				ManualReview: true,
				Method:       string(assignment.MethodManualReview),
				Confidence:   &confidence,
				Liveness:     &liveness,
			}, nil
		}
		return identity.Outcome{
			Confidence:  &confidence,
			Liveness:    &liveness,
			FailureCode: assignment.CodeFaceMatchFailed,
		}, nil
	}

	if v.cfg.RequireLiveness && !decision.Liveness {
		if v.policy.AllowManualReview(decision, nil) {
			return identity.Outcome{
				ManualReview: true,
				Method:       string(assignment.MethodManualReview),
				Confidence:   &confidence,
				Liveness:     &liveness,
			}, nil
		}
		return identity.Outcome{
			Confidence:  &confidence,
			Liveness:    &liveness,
			FailureCode: assignment.CodeLivenessFailed,
		}, nil
	}

	return identity.Outcome{
		Verified:   true,
		Method:     string(assignment.MethodFaceBiometric),
		Confidence: &confidence,
		Liveness:   &liveness,
	}, nil
}

// providerFailure handles timeouts and outages: the clock-in proceeds
// flagged for manual review when policy permits, otherwise the attempt is
// surfaced as retryable.
func (v *VerifierImpl) providerFailure(workerID string, err error) identity.Outcome {
	slog.Warn("identity provider unavailable",
		"worker_id", workerID,
		"error", err,
	)

	if v.policy.AllowManualReview(identity.Decision{}, err) {
		return identity.Outcome{Verified: true, Method: string(assignment.MethodManualReview)}
	}
	return identity.Outcome{FailureCode: assignment.CodeVerificationUnavailable}
}
