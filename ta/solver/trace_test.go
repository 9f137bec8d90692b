package solver

import (
	"fmt"
	"testing"

	"github.com/wbrown/tasched/ta"
	"github.com/wbrown/tasched/ta/automaton"
	"github.com/wbrown/tasched/ta/timeline"
)

func buildTwoActionPlanTA() *automaton.Automaton {
	a := automaton.New("plan")
	a.AddLocation(automaton.NewLocation("p0", ta.True(), false, true))
	a.AddLocation(automaton.NewLocation("p1", ta.True(), false, false))
	e := automaton.NewEdge("p0", "p1")
	e.Action = "do_thing"
	a.AddEdge(e)
	return a
}

func TestParseTraceRecoversActionAndStartTime(t *testing.T) {
	planTA := buildTwoActionPlanTA()
	src := timeline.MakeId("p0", "", "s0")
	dst := timeline.MakeId("p1", "", "s1")

	trace := fmt.Sprintf(
		"some header line\nTransition: %s -> %s { true ; ; 1 ; }\n\nState: L5 t(0)-%s<=-7 %s-t(0)<=10\n",
		src, dst, ta.GlobalClockName, ta.GlobalClockName,
	)

	entries, err := ParseTrace([]byte(trace), planTA)
	if err != nil {
		t.Fatalf("ParseTrace: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d: %+v", len(entries), entries)
	}
	if entries[0].Action != "do_thing" {
		t.Errorf("expected action %q, got %q", "do_thing", entries[0].Action)
	}
	if entries[0].Time != 7 {
		t.Errorf("expected start time 7, got %d", entries[0].Time)
	}
}

func TestParseTraceSkipsWithinTimelineTransitions(t *testing.T) {
	planTA := buildTwoActionPlanTA()
	src := timeline.MakeId("p0", "future", "s0")
	dst := timeline.MakeId("p0", "future", "s1")

	trace := fmt.Sprintf(
		"header\nTransition: %s -> %s { true ; ; ; }\n\nState: L0 t(0)-%s<=0\n",
		src, dst, ta.GlobalClockName,
	)

	entries, err := ParseTrace([]byte(trace), planTA)
	if err != nil {
		t.Fatalf("ParseTrace: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries for a within-timeline transition, got %+v", entries)
	}
}

func TestParseTraceSkipsTransitionsIntoQuery(t *testing.T) {
	planTA := buildTwoActionPlanTA()
	src := timeline.MakeId("p1", "", "s1")
	dst := timeline.Query

	trace := fmt.Sprintf("Transition: %s -> %s { true ; ; ; }\n\nState: L1 t(0)-%s<=0\n", src, dst, ta.GlobalClockName)

	entries, err := ParseTrace([]byte(trace), planTA)
	if err != nil {
		t.Fatalf("ParseTrace: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries for a transition into QUERY, got %+v", entries)
	}
}

func TestDBMGraphShortestPathThroughIntermediateNode(t *testing.T) {
	edges := map[[2]string]int{
		{"t(0)", "mid"}: -3,
		{"mid", "glob"}: -4,
		{"t(0)", "glob"}: -2, // direct edge is looser than the path through mid
	}
	g := newDBMGraph(edges)
	d, ok := g.distance("t(0)", "glob")
	if !ok {
		t.Fatal("expected a path from t(0) to glob")
	}
	if d != -7 {
		t.Errorf("expected shortest distance -7 via mid, got %d", d)
	}
}
