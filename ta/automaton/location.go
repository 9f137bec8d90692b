// Package automaton provides the timed-automaton model (C2 in the design):
// locations, edges, and the automaton container, plus the merge and
// product operations used to combine multiple automata into one.
//
// Grounded on the original taptenc source's timed_automata.h
// (state/transition/automaton structs) and, for the synchronous-product
// construction, direct_encoder.cpp's use of replaceStatesByTA.
package automaton

import "github.com/wbrown/tasched/ta"

// Location is a single state of a timed automaton. Equality is by Id.
type Location struct {
	Id      string
	Invariant *ta.ClockConstraint
	Urgent  bool
	Initial bool
}

// NewLocation creates a location with the given invariant (True if nil).
func NewLocation(id string, invariant *ta.ClockConstraint, urgent, initial bool) Location {
	if invariant == nil {
		invariant = ta.True()
	}
	return Location{Id: id, Invariant: invariant, Urgent: urgent, Initial: initial}
}

// Clone returns an independent copy of the location.
func (l Location) Clone() Location {
	l.Invariant = l.Invariant.Clone()
	return l
}

// WithInvariant returns a copy of l with its invariant conjoined with inv.
func (l Location) WithInvariant(inv *ta.ClockConstraint) Location {
	l.Invariant = ta.And(l.Invariant, inv)
	return l
}
