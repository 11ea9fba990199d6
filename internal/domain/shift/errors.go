package shift

import "errors"

var (
	ErrShiftNotFound  = errors.New("shift not found")
	ErrShiftNotOpen   = errors.New("shift is not open for applications")
	ErrShiftFull      = errors.New("shift has no remaining worker slots")
	ErrShiftCancelled = errors.New("shift has been cancelled")
)
