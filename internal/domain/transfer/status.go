package transfer

// Status represents the lifecycle state of a transfer request
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAdjusted Status = "ADJUSTED"
	StatusApproved Status = "APPROVED"
)

// IsValid checks if the status is a known transfer status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAdjusted, StatusApproved:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition to the target status is allowed.
// The lifecycle only moves forward: PENDING -> ADJUSTED -> APPROVED, with
// ADJUSTED optional. Re-adjusting an already adjusted request is allowed
// until it is approved.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusAdjusted || target == StatusApproved
	case StatusAdjusted:
		return target == StatusAdjusted || target == StatusApproved
	case StatusApproved:
		return false
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	return s == StatusApproved
}
