package automaton

import "github.com/wbrown/tasched/ta"

// Orientation distinguishes the two sides of a synchronization channel.
type Orientation int

const (
	// NoSync means the edge does not participate in a synchronization.
	NoSync Orientation = iota
	// Emit marks the edge as the emitter (sync!) side.
	Emit
	// Receive marks the edge as the receiver (sync?) side.
	Receive
)

// Edge is a transition between two locations, identified by id (never by
// pointer/handle — per spec.md §9, "every edge carries ids, never
// handles", which is what lets timelines be cloned freely).
type Edge struct {
	SourceId string
	DestId   string
	Action   string // optional action label; "" if none
	Guard    *ta.ClockConstraint
	Reset    map[*ta.Clock]bool
	Sync     string // sync channel name; "" if none
	Orient   Orientation
}

// NewEdge creates an edge with a True guard and an empty reset set unless
// overridden by the caller afterward.
func NewEdge(source, dest string) Edge {
	return Edge{SourceId: source, DestId: dest, Guard: ta.True(), Reset: map[*ta.Clock]bool{}}
}

// Clone returns a deep copy of e (the guard tree and reset set are copied;
// Clock pointers themselves are shared, since clocks are interned).
func (e Edge) Clone() Edge {
	e.Guard = e.Guard.Clone()
	reset := make(map[*ta.Clock]bool, len(e.Reset))
	for c := range e.Reset {
		reset[c] = true
	}
	e.Reset = reset
	return e
}

// WithGuard returns a copy of e with extraGuard conjoined onto its guard.
func (e Edge) WithGuard(extraGuard *ta.ClockConstraint) Edge {
	e.Guard = ta.And(e.Guard, extraGuard)
	return e
}

// WithReset returns a copy of e with extraReset unioned into its reset
// set.
func (e Edge) WithReset(extraReset map[*ta.Clock]bool) Edge {
	merged := make(map[*ta.Clock]bool, len(e.Reset)+len(extraReset))
	for c := range e.Reset {
		merged[c] = true
	}
	for c := range extraReset {
		merged[c] = true
	}
	e.Reset = merged
	return e
}

// ResetSet builds a reset set from a variadic clock list, a convenience
// used throughout the encoder where a single fresh clock is reset.
func ResetSet(clocks ...*ta.Clock) map[*ta.Clock]bool {
	out := make(map[*ta.Clock]bool, len(clocks))
	for _, c := range clocks {
		if c != nil {
			out[c] = true
		}
	}
	return out
}
