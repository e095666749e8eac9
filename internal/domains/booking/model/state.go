package model

import (
	"shareit/shared/failure"
	"time"
)

// State is a read-time classification of bookings used to filter listings. It is never stored.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

var states = []State{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}

// States lists every valid classification.
func States() []State {
	return append([]State(nil), states...)
}

// ParseState matches value exactly against the state names. Case matters.
func ParseState(value string) (State, error) {
	for _, state := range states {
		if string(state) == value {
			return state, nil
		}
	}

	return "", failure.InvalidRequest("unknown state: %s", value)
}

// Match classifies b at now. It mirrors the ledger predicates one for one.
func (s State) Match(b Booking, now time.Time) bool {
	switch s {
	case StateAll:
		return true
	case StateCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case StatePast:
		return b.End.Before(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return false
	}
}
