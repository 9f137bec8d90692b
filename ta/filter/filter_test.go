package filter

import (
	"testing"

	"github.com/wbrown/tasched/ta"
	"github.com/wbrown/tasched/ta/automaton"
)

func buildSampleAutomaton() *automaton.Automaton {
	a := automaton.New("p")
	a.AddLocation(automaton.NewLocation("p.s0", nil, false, true))
	a.AddLocation(automaton.NewLocation("p.s1", nil, false, false))
	a.AddLocation(automaton.NewLocation("q.s0", nil, false, false))
	a.AddEdge(automaton.NewEdge("p.s0", "p.s1"))
	a.AddEdge(automaton.NewEdge("p.s1", "q.s0"))
	return a
}

func TestMatchesIdRespectsInvertEffect(t *testing.T) {
	f := New([]string{"p.s0"}, false)
	if !f.MatchesId("p.s0") {
		t.Error("expected match")
	}
	if f.MatchesId("p.s1") {
		t.Error("expected no match")
	}

	inv := New([]string{"p.s0"}, true)
	if inv.MatchesId("p.s0") {
		t.Error("expected inverted non-match")
	}
	if !inv.MatchesId("p.s1") {
		t.Error("expected inverted match")
	}
}

func TestMatchesFilterPrefixAndSuffix(t *testing.T) {
	if !MatchesFilter("p.s0.end", "p.", ".end") {
		t.Error("expected match")
	}
	if MatchesFilter("q.s0.end", "p.", ".end") {
		t.Error("expected no match on prefix")
	}
}

func TestStripPrefix(t *testing.T) {
	if StripPrefix("p.s0", "p.") != "s0" {
		t.Error("expected prefix stripped")
	}
	if StripPrefix("q.s0", "p.") != "q.s0" {
		t.Error("expected unchanged when prefix absent")
	}
}

func TestGetSuffixAndPrefix(t *testing.T) {
	if GetSuffix("a.b.c", '.') != "c" {
		t.Error("expected suffix after last marker")
	}
	if GetSuffix("abc", '.') != "abc" {
		t.Error("expected unchanged when marker absent")
	}
	if GetPrefix("a.b.c", '.') != "a" {
		t.Error("expected prefix before first marker")
	}
}

func TestFilterTransitionsInPlaceRemovesMatching(t *testing.T) {
	a := buildSampleAutomaton()
	f := New([]string{"p.s1"}, false)
	a.Edges = f.FilterTransitionsInPlace(a.Edges, "p.", false)
	for _, e := range a.Edges {
		if e.DestId == "p.s1" {
			t.Error("expected edge into p.s1 removed")
		}
	}
}

func TestFilterAutomatonInPlaceRemovesLocationsAndIncidentEdges(t *testing.T) {
	a := buildSampleAutomaton()
	f := New([]string{"p.s1"}, false)
	f.FilterAutomatonInPlace(a, "p.")

	if _, ok := a.Locations["p.s1"]; ok {
		t.Error("expected p.s1 removed")
	}
	for _, e := range a.Edges {
		if e.SourceId == "p.s1" || e.DestId == "p.s1" {
			t.Error("expected no edges touching removed location")
		}
	}
}

func TestCopyAutomatonStripsConstraints(t *testing.T) {
	a := buildSampleAutomaton()
	cx := ta.InternClock("cx")
	a.Edges[0].Guard = ta.Atomic(cx, ta.GE, 1)
	a.Edges[0].Reset = automaton.ResetSet(cx)

	cp := CopyAutomaton(a, "copy", true)
	if !cp.Edges[0].Guard.IsTrue() {
		t.Error("expected guard stripped")
	}
	if len(cp.Edges[0].Reset) != 0 {
		t.Error("expected reset stripped")
	}
	if cp.Prefix != "copy" {
		t.Error("expected prefix renamed")
	}
}

func TestUpdateAndReverseFilter(t *testing.T) {
	a := buildSampleAutomaton()
	f := New([]string{"p.s1", "missing.s9"}, false)

	updated := f.UpdateFilter(a)
	if !updated.Locations["p.s1"] || updated.Locations["missing.s9"] {
		t.Errorf("expected updateFilter to keep only present locations, got %v", updated.Locations)
	}

	reversed := f.ReverseFilter(a)
	if reversed.Locations["p.s1"] || !reversed.Locations["p.s0"] {
		t.Errorf("expected reverseFilter to keep non-matching locations, got %v", reversed.Locations)
	}
}

func TestAddToTransitionsAnnotatesMatchingEdges(t *testing.T) {
	a := buildSampleAutomaton()
	f := New([]string{"p.s1"}, false)
	cx := ta.InternClock("cx_add")
	guard := ta.Atomic(cx, ta.GE, 3)

	f.AddToTransitions(a.Edges, guard, []*ta.Clock{cx}, "p.", false)

	for _, e := range a.Edges {
		if e.DestId == "p.s1" {
			// The edge's own guard is True, and And(True, g) is g itself.
			if e.Guard.Kind != ta.CCAtomic || e.Guard.Clock != cx || e.Guard.Op != ta.GE || e.Guard.K != 3 {
				t.Error("expected guard conjoined on matching edge")
			}
			if !e.Reset[cx] {
				t.Error("expected clock reset added")
			}
		}
	}
}
