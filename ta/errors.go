// Package ta provides the clock-constraint algebra at the core of a timed
// schedule encoder: clocks, clock constraints, and bound intervals.
//
// Higher-level packages build on top of this one: ta/automaton for timed
// automata, ta/plan for the sequential action plan, ta/timeline for the
// plan-ordered timelines data structure, and ta/encoder for the constraint
// operators themselves.
package ta

import "errors"

// Sentinel errors surfaced across the ta/... packages. Descriptor-mismatch
// and out-of-range-context conditions are deliberately NOT represented here:
// per the error-handling design, those are silent no-ops, not errors.
var (
	// ErrStructuralViolation indicates a plan-ordered-timelines invariant
	// (I-TL1/I-TL2/I-TL3) was breached, or an edge referenced an unknown
	// location.
	ErrStructuralViolation = errors.New("ta: structural integrity violation")

	// ErrNoSchedule indicates the solver's trace output could not be
	// decoded into a schedule. A solver that cannot be located or run to
	// completion is reported as ErrSolverUnavailable instead.
	ErrNoSchedule = errors.New("ta: no schedule satisfies the constraints")

	// ErrParseFailure indicates a plan-file parse error; it is always
	// wrapped with line information by the caller.
	ErrParseFailure = errors.New("ta: plan parse failure")

	// ErrSolverUnavailable indicates the external model checker binary
	// could not be located or executed.
	ErrSolverUnavailable = errors.New("ta: solver unavailable")
)
