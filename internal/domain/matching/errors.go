package matching

import "errors"

var (
	ErrApplicationNotFound   = errors.New("application not found")
	ErrDuplicateApplication  = errors.New("worker already has an active application for this shift")
	ErrApplicationNotPending = errors.New("application has already been processed")
	ErrNotApplicationOwner   = errors.New("application belongs to another worker")
)
