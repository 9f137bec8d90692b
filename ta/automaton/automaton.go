package automaton

import (
	"fmt"

	"github.com/wbrown/tasched/ta"
)

// Automaton is a set of locations, a set of edges, a set of clocks, and a
// set of boolean-flag names, plus a prefix string used as a namespace
// when copying (spec.md §3). Locations are kept in a map keyed by Id to
// enforce identifier uniqueness; Edges and clock/flag sets are kept as
// slices/sets since duplicate edges between the same pair are legitimate
// (e.g. two differently-guarded transitions).
type Automaton struct {
	Locations map[string]Location
	Edges     []Edge
	Clocks    map[*ta.Clock]bool
	BoolVars  map[string]bool
	Prefix    string
}

// New creates an empty automaton with the given prefix.
func New(prefix string) *Automaton {
	return &Automaton{
		Locations: map[string]Location{},
		Clocks:    map[*ta.Clock]bool{},
		BoolVars:  map[string]bool{},
		Prefix:    prefix,
	}
}

// AddLocation inserts or replaces a location by Id.
func (a *Automaton) AddLocation(l Location) {
	a.Locations[l.Id] = l
}

// AddEdge appends an edge and registers any clocks it references.
func (a *Automaton) AddEdge(e Edge) {
	a.Edges = append(a.Edges, e)
	for _, c := range e.Guard.ClocksUsed(nil) {
		a.Clocks[c] = true
	}
	for c := range e.Reset {
		a.Clocks[c] = true
	}
}

// Clone returns a deep copy of a.
func (a *Automaton) Clone() *Automaton {
	out := New(a.Prefix)
	for id, l := range a.Locations {
		out.Locations[id] = l.Clone()
	}
	for _, e := range a.Edges {
		out.Edges = append(out.Edges, e.Clone())
	}
	for c := range a.Clocks {
		out.Clocks[c] = true
	}
	for b := range a.BoolVars {
		out.BoolVars[b] = true
	}
	return out
}

// Validate checks the automaton-level structural invariants from
// spec.md §3: every edge endpoint exists in the location set, and at
// most one location is marked initial (the finalizer, not the encoder,
// enforces "exactly one"). Whether the clocks referenced by guards,
// invariants and resets belong to the clock set is not checked.
func (a *Automaton) Validate() error {
	for _, e := range a.Edges {
		if _, ok := a.Locations[e.SourceId]; !ok {
			return fmt.Errorf("%w: edge source %q not in location set", ta.ErrStructuralViolation, e.SourceId)
		}
		if _, ok := a.Locations[e.DestId]; !ok {
			return fmt.Errorf("%w: edge dest %q not in location set", ta.ErrStructuralViolation, e.DestId)
		}
	}
	initialCount := 0
	for _, l := range a.Locations {
		if l.Initial {
			initialCount++
		}
	}
	if initialCount > 1 {
		return fmt.Errorf("%w: %d locations marked initial", ta.ErrStructuralViolation, initialCount)
	}
	return nil
}

// mergeIds concatenates two identifiers as aId + "__" + bId. Neither id
// is parsed: a's TL-prefix, b's base-location suffix and any
// operator-stack fragment carried by b are not separated or rearranged.
// The full grammar (TL_SEP / CONSTRAINT_SEP / BASE_SEP parsing) lives in
// ta/timeline since only that package constructs plan-ordered identifiers.
func mergeIds(aId, bId string) string {
	return aId + "__" + bId
}

// MergeIds exposes mergeIds's id-concatenation convention to callers
// outside this package (ta/encoder's Merge) that must build product
// location ids matching ProductTA's own naming when distributing edges
// that ProductTA itself did not lift (spec.md §4.9).
func MergeIds(aId, bId string) string {
	return mergeIds(aId, bId)
}

// MergeAutomata unions all locations and edges of the given automata,
// deduping locations by Id, unioning clocks by identity, and setting name
// as the resulting prefix. Deterministic: iteration order over the input
// slice determines which duplicate location "wins", and since duplicates
// are expected to be structurally identical in practice the result is
// well-defined regardless. Grounded on direct_encoder's
// createFinalSystem, which folds every surviving TA copy into one
// automaton this way.
func MergeAutomata(automata []*Automaton, extraEdges []Edge, name string) *Automaton {
	out := New(name)
	for _, a := range automata {
		for id, l := range a.Locations {
			out.Locations[id] = l
		}
		out.Edges = append(out.Edges, a.Edges...)
		for c := range a.Clocks {
			out.Clocks[c] = true
		}
		for b := range a.BoolVars {
			out.BoolVars[b] = true
		}
	}
	for _, e := range extraEdges {
		out.AddEdge(e)
	}
	return out
}

// ProductTA computes the synchronous product of A and B (spec.md §4.2).
// For each location s of A, a copy of B is created whose locations are
// named mergeIds(s.Id, b.Id); every edge of A is lifted into (i) one copy
// edge per location of B carrying A's own guard/reset, and (ii) one
// successor edge per edge of B that fires simultaneously, whose guard is
// the conjunction of both guards, whose reset is the union of both reset
// sets, and whose action label concatenates both labels with
// actionSep. Invariants are merged onto each product location.
func ProductTA(a, b *Automaton, name, actionSep string) *Automaton {
	out := New(name)

	for _, sa := range a.Locations {
		for _, sb := range b.Locations {
			id := mergeIds(sa.Id, sb.Id)
			out.AddLocation(Location{
				Id:        id,
				Invariant: ta.And(sa.Invariant.Clone(), sb.Invariant.Clone()),
				Urgent:    sa.Urgent || sb.Urgent,
				Initial:   sa.Initial && sb.Initial,
			})
		}
	}

	for _, ea := range a.Edges {
		// (i) copy edges: A fires, B stays in place at every one of its
		// locations.
		for _, sb := range b.Locations {
			ce := Edge{
				SourceId: mergeIds(ea.SourceId, sb.Id),
				DestId:   mergeIds(ea.DestId, sb.Id),
				Action:   ea.Action,
				Guard:    ea.Guard.Clone(),
				Reset:    cloneResetSet(ea.Reset),
				Sync:     ea.Sync,
				Orient:   ea.Orient,
			}
			if _, ok := out.Locations[ce.SourceId]; ok {
				if _, ok2 := out.Locations[ce.DestId]; ok2 {
					out.AddEdge(ce)
				}
			}
		}
		// (ii) successor edges: A and B fire simultaneously.
		for _, eb := range b.Edges {
			se := Edge{
				SourceId: mergeIds(ea.SourceId, eb.SourceId),
				DestId:   mergeIds(ea.DestId, eb.DestId),
				Action:   joinActions(ea.Action, eb.Action, actionSep),
				Guard:    ta.And(ea.Guard.Clone(), eb.Guard.Clone()),
				Reset:    unionResetSets(ea.Reset, eb.Reset),
			}
			if _, ok := out.Locations[se.SourceId]; ok {
				if _, ok2 := out.Locations[se.DestId]; ok2 {
					out.AddEdge(se)
				}
			}
		}
	}

	return out
}

func joinActions(a, b, sep string) string {
	switch {
	case a == "" && b == "":
		return ""
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + sep + b
	}
}

func cloneResetSet(r map[*ta.Clock]bool) map[*ta.Clock]bool {
	out := make(map[*ta.Clock]bool, len(r))
	for c := range r {
		out[c] = true
	}
	return out
}

func unionResetSets(a, b map[*ta.Clock]bool) map[*ta.Clock]bool {
	out := make(map[*ta.Clock]bool, len(a)+len(b))
	for c := range a {
		out[c] = true
	}
	for c := range b {
		out[c] = true
	}
	return out
}
