package encoder

import (
	"testing"

	"github.com/wbrown/tasched/ta"
	"github.com/wbrown/tasched/ta/automaton"
	"github.com/wbrown/tasched/ta/plan"
	"github.com/wbrown/tasched/ta/timeline"
)

func buildTwoStatePlatform() *automaton.Automaton {
	a := automaton.New("platform")
	a.AddLocation(automaton.NewLocation("idle", ta.True(), false, true))
	a.AddLocation(automaton.NewLocation("active", ta.True(), false, false))
	e := automaton.NewEdge("idle", "active")
	e.Action = "on"
	a.AddEdge(e)
	return a
}

func singleActionPlan() plan.Plan {
	return plan.New([]plan.Action{{
		Id:       "p0",
		Name:     plan.NewActionName("A"),
		AbsTime:  ta.UnboundedFrom(0),
		Duration: ta.NewBound(1, ta.NonStrict, 1, ta.NonStrict),
		ExecTime: -1,
	}})
}

func TestGenerateBaseTimelineCopiesPlatformPerPlanAction(t *testing.T) {
	p := singleActionPlan()
	platform := buildTwoStatePlatform()

	tls := GenerateBaseTimeline(p, platform)

	for _, pa := range []string{plan.StartId, "p0", plan.EndId} {
		tl, ok := tls.TLs[pa]
		if !ok {
			t.Fatalf("expected timeline for %q", pa)
		}
		entry, ok := tl[""]
		if !ok {
			t.Fatalf("expected plain-tagged copy for %q", pa)
		}
		if len(entry.TA.Locations) != 2 {
			t.Errorf("%q: expected 2 locations, got %d", pa, len(entry.TA.Locations))
		}
		idleId := timeline.MakeId(pa, "", "idle")
		activeId := timeline.MakeId(pa, "", "active")
		if _, ok := entry.TA.Locations[idleId]; !ok {
			t.Errorf("%q: missing renamed idle location %q", pa, idleId)
		}
		if _, ok := entry.TA.Locations[activeId]; !ok {
			t.Errorf("%q: missing renamed active location %q", pa, activeId)
		}
	}
}

func TestGenerateBaseTimelineOnlyStartCarriesInitialLocation(t *testing.T) {
	p := singleActionPlan()
	tls := GenerateBaseTimeline(p, buildTwoStatePlatform())

	startIdle := tls.TLs[plan.StartId][""].TA.Locations[timeline.MakeId(plan.StartId, "", "idle")]
	if !startIdle.Initial {
		t.Error("expected START's copy of idle to remain initial")
	}
	p0Idle := tls.TLs["p0"][""].TA.Locations[timeline.MakeId("p0", "", "idle")]
	if p0Idle.Initial {
		t.Error("expected p0's copy of idle to not be initial")
	}
}

func TestGenerateBaseTimelineWiresPlanOrderTransitionsAndQuery(t *testing.T) {
	p := singleActionPlan()
	tls := GenerateBaseTimeline(p, buildTwoStatePlatform())

	startEntry := tls.TLs[plan.StartId][""]
	if len(startEntry.TransOut) != 2 {
		t.Fatalf("expected 2 copy-transitions out of START (one per platform state), got %d", len(startEntry.TransOut))
	}
	for _, e := range startEntry.TransOut {
		if timeline.SplitPA(e.DestId) != "p0" {
			t.Errorf("expected START's copy-transitions to land in p0, got dest %q", e.DestId)
		}
	}

	endEntry := tls.TLs[plan.EndId][""]
	if len(endEntry.TransOut) != 2 {
		t.Fatalf("expected 2 transitions out of END into QUERY, got %d", len(endEntry.TransOut))
	}
	for _, e := range endEntry.TransOut {
		if e.DestId != timeline.Query {
			t.Errorf("expected END's transitions to land in QUERY, got %q", e.DestId)
		}
	}

	if _, ok := tls.TLs[timeline.Query][timeline.Query]; !ok {
		t.Error("expected a QUERY timeline entry")
	}
}
