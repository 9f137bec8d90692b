package timeline

import (
	"testing"

	"github.com/wbrown/tasched/ta/automaton"
)

func buildPlainTA(id string) *automaton.Automaton {
	a := automaton.New(id)
	a.AddLocation(automaton.NewLocation(id+".s0", nil, false, true))
	return a
}

func TestInitBaseTimelineSeedsPlainEntry(t *testing.T) {
	p := New([]string{"p0"})
	p.InitBaseTimeline("p0", buildPlainTA("p0"))

	entry, ok := p.TLs["p0"][""]
	if !ok {
		t.Fatal("expected plain entry under empty key")
	}
	if _, ok := entry.TA.Locations["p0.s0"]; !ok {
		t.Error("expected seeded TA's location present")
	}
}

func TestCreateOrigMapping(t *testing.T) {
	p := New([]string{"p0"})
	p.InitBaseTimeline("p0", buildPlainTA("p0"))

	m := p.CreateOrigMapping("w1")
	found := false
	for k, v := range m {
		if v == "p0.s0" && k == AddPrefix("w1", "p0.s0") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected prefixed mapping, got %v", m)
	}
}

func TestCollapseTLMergesAllCopies(t *testing.T) {
	tl := TimeLine{
		"c1": Entry{TA: buildPlainTA("c1")},
		"c2": Entry{TA: buildPlainTA("c2")},
	}
	merged, _ := CollapseTL(tl, "tlname")
	if len(merged.Locations) != 2 {
		t.Fatalf("expected 2 merged locations, got %d", len(merged.Locations))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tls := TimeLines{"p0": {"": Entry{TA: buildPlainTA("p0")}}}
	clone := tls.Clone()
	clone["p0"][""].TA.Locations["extra"] = automaton.NewLocation("extra", nil, false, false)

	if _, ok := tls["p0"][""].TA.Locations["extra"]; ok {
		t.Error("expected clone to be independent of original")
	}
}

func TestPlanOrderedTLsCloneIsIndependent(t *testing.T) {
	p := New([]string{"p0"})
	p.InitBaseTimeline("p0", buildPlainTA("p0"))

	clone := p.Clone()
	clone.TLs["p0"][""].TA.Locations["extra"] = automaton.NewLocation("extra", nil, false, false)
	clone.PAOrder = append(clone.PAOrder, "p1")

	if _, ok := p.TLs["p0"][""].TA.Locations["extra"]; ok {
		t.Error("expected clone's timeline mutation not to reach the original")
	}
	if len(p.PAOrder) != 1 {
		t.Error("expected clone's PAOrder mutation not to reach the original")
	}
}
