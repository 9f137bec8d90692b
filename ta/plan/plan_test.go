package plan

import (
	"testing"

	"github.com/wbrown/tasched/ta"
)

func TestNewWrapsWithStartAndEnd(t *testing.T) {
	p := New([]Action{{Id: "p0", Name: NewActionName("go")}})
	if len(p.Actions) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(p.Actions))
	}
	if p.Actions[0].Id != StartId || p.Actions[2].Id != EndId {
		t.Errorf("expected START/END wrapping, got %v", p.Actions)
	}
}

func TestPlanOrderAppendsQuery(t *testing.T) {
	p := New([]Action{{Id: "p0", Name: NewActionName("go")}})
	order := p.PlanOrder()
	if order[len(order)-1] != QueryId {
		t.Errorf("expected trailing QUERY, got %v", order)
	}
}

func TestGeneratePlanAutomatonChainShape(t *testing.T) {
	ta.ResetClockInterns()
	p := New([]Action{
		{Id: "p0", Name: NewActionName("go"), Duration: ta.NewBound(1, ta.NonStrict, 5, ta.NonStrict)},
	})
	auto := GeneratePlanAutomaton(p, "plan1")

	if len(auto.Locations) != 3 {
		t.Fatalf("expected 3 locations, got %d", len(auto.Locations))
	}
	if len(auto.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(auto.Edges))
	}
	start, ok := auto.Locations[StartId]
	if !ok || !start.Initial {
		t.Error("expected START to be initial location")
	}
	if err := auto.Validate(); err != nil {
		t.Fatalf("expected valid automaton: %v", err)
	}
}

func TestIndexOfAndById(t *testing.T) {
	p := New([]Action{{Id: "p0", Name: NewActionName("go")}})
	if p.IndexOf("p0") != 1 {
		t.Errorf("expected p0 at index 1, got %d", p.IndexOf("p0"))
	}
	if p.IndexOf("missing") != -1 {
		t.Error("expected -1 for missing id")
	}
	a, ok := p.ById(StartId)
	if !ok || a.Id != StartId {
		t.Error("expected to find START by id")
	}
}
