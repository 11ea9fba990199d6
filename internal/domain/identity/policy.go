package identity

// OverridePolicy decides whether a failed or unavailable verification may
// degrade to manual review instead of rejecting the clock-in. It is a
// strategy so alternate policies are swappable implementations, not nested
// conditionals.
type OverridePolicy interface {
	// AllowManualReview is consulted after a verification failure. decision
	// is the zero value when the provider errored out; providerErr is nil
	// when the provider answered but the answer failed policy.
	AllowManualReview(decision Decision, providerErr error) bool
}

// AllowOverridePolicy permits manual review when the provider signals that
// an override is acceptable, and always degrades provider outages to manual
// review rather than blocking the worker.
type AllowOverridePolicy struct{}

func (AllowOverridePolicy) AllowManualReview(decision Decision, providerErr error) bool {
	if providerErr != nil {
		return true
	}
	return decision.AllowManualOverride
}

// HardFailPolicy never degrades: verification failures and provider outages
// reject the attempt.
type HardFailPolicy struct{}

func (HardFailPolicy) AllowManualReview(Decision, error) bool {
	return false
}
