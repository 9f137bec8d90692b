package ta

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Clock is a named non-negative integer variable, monotonically increasing
// with global time except where explicitly reset. Clocks are shared: two
// constraints or resets referencing the same name must see the same
// logical object, so Clock is obtained exclusively through InternClock /
// NewFreshClock and compared by identity (pointer equality), never by name.
type Clock struct {
	id   int64
	name string
}

// Name returns the clock's declared name.
func (c *Clock) Name() string {
	return c.name
}

// String renders the clock for diagnostics and for emission into guards
// and invariants.
func (c *Clock) String() string {
	if c == nil {
		return "<nil-clock>"
	}
	return c.name
}

// Equal reports whether two clock handles refer to the same logical clock.
func (c *Clock) Equal(other *Clock) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.id == other.id
}

// GlobalClockName names the reserved clock measuring absolute time. It is never
// reset after initialization.
const GlobalClockName = "t_global"

// StateClockName is the reserved clock bounding visit duration; it is
// reset on every transition.
const StateClockName = "t_state"

var clockSeq atomic.Int64

// clockIntern provides clock interning so that two requests for the same
// clock name observe the same *Clock, the way the teacher interns
// keywords and identities (datalog/intern.go) so that structurally equal
// values share one allocation and compare by identity.
type clockIntern struct {
	mu    sync.Mutex
	byName map[string]*Clock
}

var globalClockIntern = &clockIntern{byName: make(map[string]*Clock)}

// InternClock returns the shared Clock handle for name, creating it on
// first use. Subsequent calls with the same name return the identical
// pointer.
func InternClock(name string) *Clock {
	globalClockIntern.mu.Lock()
	defer globalClockIntern.mu.Unlock()

	if c, ok := globalClockIntern.byName[name]; ok {
		return c
	}
	c := &Clock{id: clockSeq.Add(1), name: name}
	globalClockIntern.byName[name] = c
	return c
}

// NewFreshClock allocates a clock with a name derived from the given
// prefix and a process-wide increasing counter, guaranteeing it is
// distinct from every other interned clock (including a same-prefix one
// created earlier). Used by the encoder (C7) to satisfy invariant I3: the
// set of fresh clocks introduced across all operator applications is
// pairwise disjoint.
func NewFreshClock(prefix string) *Clock {
	n := clockSeq.Add(1)
	name := fmt.Sprintf("%s_%d", prefix, n)
	return InternClock(name)
}

// ResetClockInterns clears the global clock intern table. Intended for
// tests that need deterministic clock numbering across runs.
func ResetClockInterns() {
	globalClockIntern.mu.Lock()
	defer globalClockIntern.mu.Unlock()
	globalClockIntern.byName = make(map[string]*Clock)
	clockSeq.Store(0)
}
