package assignment

type Status string

const (
	StatusAssigned   Status = "assigned"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// validTransitions enumerates every legal (from, to) pair. Anything else is
// an integrity violation, not a policy rejection.
var validTransitions = map[Status][]Status{
	StatusAssigned:   {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:  {StatusCheckedOut, StatusCancelled},
	StatusCheckedOut: {StatusCompleted},
}

// CanTransition reports whether from -> to is a legal state change.
func CanTransition(from, to Status) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the assignment's lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusCheckedOut || s == StatusCompleted || s == StatusCancelled
}

// ValidStatus reports whether s is a known assignment status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusAssigned, StatusCheckedIn, StatusCheckedOut, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
