package types

import "fmt"

// Status is the lifecycle state of a knowledge entry. Only active entries
// are visible to retrieval.
type Status string

const (
	StatusActive   Status = "active"
	StatusPending  Status = "pending"
	StatusArchived Status = "archived"
)

// Statuses lists all valid lifecycle states.
var Statuses = []Status{StatusActive, StatusPending, StatusArchived}

// transitions is the lifecycle state machine. Archive is absorbing; the
// self-transition makes repeated archival idempotent.
var transitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusActive:   true, // approve
		StatusArchived: true, // reject
	},
	StatusActive: {
		StatusArchived: true, // soft-delete
	},
	StatusArchived: {
		StatusArchived: true,
	},
}

// CanTransition reports whether moving from one status to another is a
// legal lifecycle transition.
func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

// ValidateTransition returns an error describing an illegal transition,
// or nil if the transition is allowed.
func ValidateTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("illegal status transition %s -> %s", from, to)
	}
	return nil
}
