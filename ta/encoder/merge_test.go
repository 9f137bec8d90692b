package encoder

import (
	"testing"

	"github.com/wbrown/tasched/ta"
	"github.com/wbrown/tasched/ta/automaton"
	"github.com/wbrown/tasched/ta/plan"
	"github.com/wbrown/tasched/ta/timeline"
)

func buildSingleLocTL(pa string) timeline.TimeLine {
	a := automaton.New(pa)
	a.AddLocation(automaton.NewLocation(pa, ta.True(), false, false))
	return timeline.TimeLine{pa: timeline.Entry{TA: a}}
}

func TestMergeProductsMatchingPlanActions(t *testing.T) {
	paOrder := []string{"p0", plan.QueryId}

	e1 := timeline.New(paOrder)
	e1.TLs["p0"] = buildSingleLocTL("p0")
	inner := automaton.NewEdge("p0", "p0")
	e1.TLs["p0"]["p0"] = timeline.Entry{TA: e1.TLs["p0"]["p0"].TA, TransOut: []automaton.Edge{inner}}
	e1.TLs[plan.QueryId] = timeline.TimeLine{timeline.Query: timeline.Entry{TA: automaton.New(timeline.Query)}}

	e2 := timeline.New(paOrder)
	e2.TLs["p0"] = buildSingleLocTL("p0b")

	merged := Merge(e1, e2)

	tl, ok := merged.TLs["p0"]
	if !ok || len(tl) != 1 {
		t.Fatalf("expected exactly one TA copy for p0, got %v", tl)
	}
	for _, entry := range tl {
		wantLoc := automaton.MergeIds("p0", "p0b")
		if _, ok := entry.TA.Locations[wantLoc]; !ok {
			t.Errorf("expected product location %q, got %v", wantLoc, entry.TA.Locations)
		}
		if len(entry.TransOut) == 0 {
			t.Error("expected distributed outgoing transitions")
		}
	}

	if qtl, ok := merged.TLs[plan.QueryId]; !ok || len(qtl) != 1 {
		t.Errorf("expected QUERY timeline carried over unchanged, got %v", qtl)
	}
}

func TestMergeMissingSecondEncodingTimelineKeepsFirst(t *testing.T) {
	paOrder := []string{"p0"}
	e1 := timeline.New(paOrder)
	e1.TLs["p0"] = buildSingleLocTL("p0")
	e2 := timeline.New(paOrder)

	merged := Merge(e1, e2)
	if _, ok := merged.TLs["p0"]["p0"]; !ok {
		t.Error("expected e1's timeline kept as-is when e2 has none at this plan action")
	}
}
