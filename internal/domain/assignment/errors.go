package assignment

import "errors"

var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAssignmentExists   = errors.New("worker is already assigned to this shift")
	ErrNotAssignmentOwner = errors.New("assignment belongs to another worker")

	// Integrity violations: the store refused a state change because the
	// current status did not match.
	ErrInvalidTransition = errors.New("invalid assignment state transition")
	ErrAlreadyCheckedIn  = errors.New("assignment is already checked in")
	ErrNotCheckedIn      = errors.New("assignment is not checked in")
)
