// Package finalizer implements the fixed-point dead-copy pruning and
// final flattening step (C9): the last stage before an encoding is
// handed to the external model-checker boundary.
//
// Grounded on the original taptenc source's
// DirectEncoder::createFinalSystem in encoder/direct_encoder.cpp.
package finalizer

import (
	"github.com/wbrown/tasched/ta/automaton"
	"github.com/wbrown/tasched/ta/filter"
	"github.com/wbrown/tasched/ta/timeline"
)

type paKey struct{ pa, key string }

// deadCopies returns every location id belonging to a dead-ended TA copy
// (non-QUERY, empty TransOut) across tls, plus the (pa, key) pair
// identifying each such copy for removal.
func deadCopies(tls *timeline.PlanOrderedTLs) (locs []string, keys map[paKey]bool) {
	keys = map[paKey]bool{}
	for pa, tl := range tls.TLs {
		for key, entry := range tl {
			if key == timeline.Query {
				continue
			}
			if len(entry.TransOut) > 0 {
				continue
			}
			keys[paKey{pa, key}] = true
			for locId := range entry.TA.Locations {
				locs = append(locs, locId)
			}
		}
	}
	return locs, keys
}

// Prune repeats until a fixed point: find every TA copy (QUERY excepted)
// whose outgoing-transition list is empty, delete it, and delete every
// edge anywhere in tls whose destination is one of its locations — since
// removing those edges can itself dead-end an upstream copy, the search
// repeats. Bounded by |timelines|: each round strictly shrinks the
// surviving-copy count or finds nothing, and a copy once deleted is
// never reconsidered (I-TL2: outgoing edges only point forward in plan
// order, so deletion cannot resurrect an earlier round's casualty).
// Grounded on DirectEncoder::createFinalSystem's prune loop (the
// `last_pruned_states`/`already_pruned` do/while).
func Prune(tls *timeline.PlanOrderedTLs) {
	for {
		deadLocs, deadKeys := deadCopies(tls)
		if len(deadKeys) == 0 {
			return
		}
		f := filter.New(deadLocs, false)
		for pa, tl := range tls.TLs {
			for key, entry := range tl {
				if deadKeys[paKey{pa, key}] {
					delete(tl, key)
					continue
				}
				entry.TransOut = f.FilterTransitionsInPlace(entry.TransOut, "", false)
				tl[key] = entry
			}
		}
	}
}

// Flatten concatenates every surviving TA copy across every timeline
// (QUERY included) into a single automaton: union of locations, edges,
// clocks, and boolean flags, with each copy's TransOut lifted in as
// ordinary edges of the result. Returns the merged automaton and the id
// of the single QUERY location, for the caller to package into
// (automaton, plan TA, QUERY location) alongside the fixed reachability
// query "QUERY is reachable" (spec.md §4.10). Grounded on
// DirectEncoder::createFinalSystem's final merge step
// (`mergeAutomata(automata, interconnections, "direct")`).
func Flatten(tls *timeline.PlanOrderedTLs, name string) (merged *automaton.Automaton, queryLoc string) {
	var automata []*automaton.Automaton
	var extraEdges []automaton.Edge
	for _, tl := range tls.TLs {
		for key, entry := range tl {
			automata = append(automata, entry.TA)
			extraEdges = append(extraEdges, entry.TransOut...)
			if key == timeline.Query {
				for locId := range entry.TA.Locations {
					queryLoc = locId
				}
			}
		}
	}
	merged = automaton.MergeAutomata(automata, extraEdges, name)
	return merged, queryLoc
}
