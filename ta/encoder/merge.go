package encoder

import (
	"github.com/wbrown/tasched/ta"
	"github.com/wbrown/tasched/ta/automaton"
	"github.com/wbrown/tasched/ta/plan"
	"github.com/wbrown/tasched/ta/timeline"
)

// Merge computes the product of two encodings sharing the same plan
// order (spec.md §4.9, C8): for each plan action and each TA copy of e1,
// the corresponding collapsed timeline of e2 is producted in via
// automaton.ProductTA, and e1's own outgoing transitions are distributed
// across the product: inner edges pair against every location and every
// edge of the collapsed e2 timeline, QUERY-bound edges against every
// location only, while edges
// crossing to a later plan action pair against e2's own outgoing
// transitions instead, since a later plan action has not been producted
// yet for this crossing. The QUERY timeline is carried over from e1
// unchanged, since QUERY timelines are never producted.
func Merge(e1, e2 *timeline.PlanOrderedTLs) *timeline.PlanOrderedTLs {
	out := timeline.New(e1.PAOrder)

	for _, pa := range e1.PAOrder {
		tl1, ok1 := e1.TLs[pa]
		if !ok1 {
			continue
		}
		if pa == plan.QueryId {
			out.TLs[pa] = tl1.Clone()
			continue
		}
		tl2, ok2 := e2.TLs[pa]
		if !ok2 {
			out.TLs[pa] = tl1.Clone()
			continue
		}

		m2, outgoing2 := timeline.CollapseTL(tl2, pa+"_m2")
		newTL := timeline.TimeLine{}
		for key1, entry1 := range tl1 {
			prod := automaton.ProductTA(entry1.TA, m2, entry1.TA.Prefix, string(timeline.ActionSep))
			newTL[key1] = timeline.Entry{
				TA:       prod,
				TransOut: distributeOutgoing(entry1.TransOut, pa, m2, outgoing2),
			}
		}
		out.TLs[pa] = newTL
	}

	return out
}

// distributeOutgoing lifts e1's outgoing transitions (from a single TA
// copy of plan action pa) across the collapsed second-encoding timeline
// m2/outgoing2, per spec.md §4.9.
func distributeOutgoing(trans []automaton.Edge, pa string, m2 *automaton.Automaton, outgoing2 []automaton.Edge) []automaton.Edge {
	var out []automaton.Edge
	for _, t := range trans {
		inner := t.DestId == timeline.Query || timeline.SplitPA(t.DestId) == pa
		if inner {
			out = append(out, distributeInner(t, m2)...)
		} else {
			out = append(out, distributeCrossing(t, outgoing2)...)
		}
	}
	return out
}

// distributeInner pairs a single-timeline (or QUERY-bound) edge t
// against every location of m2 (t fires, m2 stays put: a "copy" edge)
// and every edge of m2 (both fire together: a "successor" edge),
// mirroring automaton.ProductTA's own copy/successor construction.
// QUERY is never producted, so an edge into QUERY keeps QUERY as its
// destination verbatim and only the copy-edge half applies.
func distributeInner(t automaton.Edge, m2 *automaton.Automaton) []automaton.Edge {
	var out []automaton.Edge
	if t.DestId == timeline.Query {
		for sId := range m2.Locations {
			ne := t.Clone()
			ne.SourceId = automaton.MergeIds(t.SourceId, sId)
			ne.DestId = timeline.Query
			out = append(out, ne)
		}
		return out
	}
	for sId := range m2.Locations {
		ne := t.Clone()
		ne.SourceId = automaton.MergeIds(t.SourceId, sId)
		ne.DestId = automaton.MergeIds(t.DestId, sId)
		out = append(out, ne)
	}
	for _, u := range m2.Edges {
		out = append(out, pairEdges(t, u))
	}
	return out
}

// distributeCrossing pairs an edge t crossing to a later plan action
// against e2's own collapsed outgoing transitions, since the
// destination timeline has not been producted at this point in the
// plan-action loop.
func distributeCrossing(t automaton.Edge, outgoing2 []automaton.Edge) []automaton.Edge {
	var out []automaton.Edge
	for _, u := range outgoing2 {
		out = append(out, pairEdges(t, u))
	}
	return out
}

// pairEdges builds the successor edge fired by both t and u
// simultaneously: ids composed via automaton.MergeIds, guards conjoined,
// resets unioned, action labels joined with ActionSep.
func pairEdges(t, u automaton.Edge) automaton.Edge {
	reset := make(map[*ta.Clock]bool, len(t.Reset)+len(u.Reset))
	for c := range t.Reset {
		reset[c] = true
	}
	for c := range u.Reset {
		reset[c] = true
	}
	return automaton.Edge{
		SourceId: automaton.MergeIds(t.SourceId, u.SourceId),
		DestId:   automaton.MergeIds(t.DestId, u.DestId),
		Action:   timeline.JoinActions(t.Action, u.Action),
		Guard:    ta.And(t.Guard.Clone(), u.Guard.Clone()),
		Reset:    reset,
		Sync:     t.Sync,
	}
}
