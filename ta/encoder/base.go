package encoder

import (
	"github.com/wbrown/tasched/ta"
	"github.com/wbrown/tasched/ta/automaton"
	"github.com/wbrown/tasched/ta/plan"
	"github.com/wbrown/tasched/ta/timeline"
)

// GenerateBaseTimeline builds the initial C6 structure (spec.md §4.3's
// "product of plan with platform TA"): one plain-tagged copy of platform
// per plan action, its locations renamed under that plan action's
// structured id space and carrying the plan action's own duration
// invariant, wired in plan order by copy-transitions mirroring the plan
// automaton's own edges (guard on the plan clock, reset of the plan
// clock, action label). The final plan action's copy gets an unguarded
// edge into the QUERY timeline. Grounded on
// DirectEncoder::generateBaseTimeLine in direct_encoder.cpp.
func GenerateBaseTimeline(p plan.Plan, platform *automaton.Automaton) *timeline.PlanOrderedTLs {
	planTA := plan.GeneratePlanAutomaton(p, "plan")
	tls := timeline.New(p.PlanOrder())

	for _, act := range p.Actions {
		planLoc := planTA.Locations[act.Id]
		copyTA := automaton.New(act.Id)
		for _, l := range platform.Locations {
			nl := l.Clone()
			nl.Id = timeline.MakeId(act.Id, "", l.Id)
			nl.Initial = act.Id == plan.StartId && l.Initial
			copyTA.AddLocation(nl.WithInvariant(planLoc.Invariant))
		}
		for _, e := range platform.Edges {
			ne := e.Clone()
			ne.SourceId = timeline.MakeId(act.Id, "", e.SourceId)
			ne.DestId = timeline.MakeId(act.Id, "", e.DestId)
			copyTA.AddEdge(ne)
		}
		for c := range planTA.Clocks {
			copyTA.Clocks[c] = true
		}
		tls.InitBaseTimeline(act.Id, copyTA)
	}

	queryTA := automaton.New(timeline.Query)
	queryTA.AddLocation(automaton.NewLocation(timeline.Query, ta.True(), false, false))
	tls.TLs[timeline.Query] = timeline.TimeLine{timeline.Query: timeline.Entry{TA: queryTA}}

	lastPA := p.Actions[len(p.Actions)-1].Id
	lastEntry := tls.TLs[lastPA][""]
	for id := range lastEntry.TA.Locations {
		lastEntry.TransOut = append(lastEntry.TransOut, automaton.NewEdge(id, timeline.Query))
	}
	tls.TLs[lastPA][""] = lastEntry

	for _, e := range planTA.Edges {
		srcEntry := tls.TLs[e.SourceId][""]
		dstEntry := tls.TLs[e.DestId][""]
		for _, sloc := range srcEntry.TA.Locations {
			base := timeline.SplitBase(sloc.Id)
			for _, dloc := range dstEntry.TA.Locations {
				if timeline.SplitBase(dloc.Id) != base {
					continue
				}
				ne := automaton.NewEdge(sloc.Id, dloc.Id)
				ne.Guard = e.Guard.Clone()
				ne.Action = e.Action
				reset := make(map[*ta.Clock]bool, len(e.Reset))
				for c := range e.Reset {
					reset[c] = true
				}
				ne.Reset = reset
				srcEntry.TransOut = append(srcEntry.TransOut, ne)
				break
			}
		}
		tls.TLs[e.SourceId][""] = srcEntry
	}

	return tls
}
