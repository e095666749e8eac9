package model

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether a booking in s may move to next.
// WAITING is the only state with outgoing edges.
func (s Status) CanTransition(next Status) bool {
	return s == StatusWaiting && next.IsTerminal()
}

// Decide maps an owner's decision to the status it produces.
func Decide(approved bool) Status {
	if approved {
		return StatusApproved
	}

	return StatusRejected
}
