package encoder

import (
	"testing"

	"github.com/wbrown/tasched/ta"
	"github.com/wbrown/tasched/ta/automaton"
	"github.com/wbrown/tasched/ta/descriptor"
	"github.com/wbrown/tasched/ta/plan"
	"github.com/wbrown/tasched/ta/timeline"
)

func buildChainPlan() plan.Plan {
	mk := func(id string) plan.Action {
		return plan.Action{Id: id, Name: plan.NewActionName(id), AbsTime: ta.UnboundedFrom(0), Duration: ta.NewBound(1, ta.NonStrict, 5, ta.NonStrict), ExecTime: -1}
	}
	return plan.New([]plan.Action{mk("p1"), mk("p2"), mk("p3")})
}

func seedChainTimelines(p plan.Plan) *timeline.PlanOrderedTLs {
	tls := timeline.New(p.PlanOrder())
	for _, pa := range p.PlanOrder() {
		if pa == plan.QueryId {
			continue
		}
		a := automaton.New(pa)
		a.AddLocation(automaton.NewLocation(pa, ta.True(), false, pa == plan.StartId))
		tls.InitBaseTimeline(pa, a)
	}
	return tls
}

func TestUntilChainMergesSegmentWindows(t *testing.T) {
	p := buildChainPlan()
	tls := seedChainTimelines(p)
	enc := New(p)

	d := descriptor.NewChain("chain1", "p1", []descriptor.TargetSpec{
		descriptor.NewTargetSpec(ta.NewBound(0, ta.NonStrict, 10, ta.NonStrict), "p2"),
		descriptor.NewTargetSpec(ta.NewBound(0, ta.NonStrict, 10, ta.NonStrict), "p3"),
	}, plan.EndId)

	before := enc.counter
	enc.UntilChain(tls, d)

	if enc.counter <= before {
		t.Error("expected UntilChain to allocate a fresh clock")
	}
	if len(tls.TLs["p2"]) < 2 {
		t.Errorf("expected p2 timeline to gain a segment-0 window copy, got %d entries", len(tls.TLs["p2"]))
	}
}

func TestUntilChainNoSegmentsIsNoop(t *testing.T) {
	p := buildChainPlan()
	tls := seedChainTimelines(p)
	enc := New(p)

	d := descriptor.NewChain("chain1", "p1", nil, plan.EndId)
	before := enc.counter
	enc.UntilChain(tls, d)
	if enc.counter != before {
		t.Error("expected no clock allocation for an empty chain")
	}
}

func TestBridgeWindowTailGuardsOnPreviousSegmentBoundAndResetsClock(t *testing.T) {
	xg := ta.InternClock("bridge_test_xg")
	bound := ta.NewBound(0, ta.NonStrict, 10, ta.NonStrict)

	srcKey := timeline.AddPrefix("segApre", "orig")
	dstKey := timeline.AddPrefix("segBpre", "orig")

	src := timeline.New([]string{"segA"})
	srcTA := automaton.New(srcKey)
	srcTA.AddLocation(automaton.NewLocation("segA", ta.True(), false, false))
	src.TLs["segA"] = timeline.TimeLine{srcKey: timeline.Entry{TA: srcTA}}

	dst := timeline.New([]string{"segA"})
	dstTA := automaton.New(dstKey)
	dstTA.AddLocation(automaton.NewLocation("segA", ta.True(), false, false))
	dst.TLs["segA"] = timeline.TimeLine{dstKey: timeline.Entry{TA: dstTA}}

	bridgeWindowTail(src, "segApre", "segA", dst, "segBpre", "segA", bound.ToConstraint(xg), []*ta.Clock{xg})

	entry := src.TLs["segA"][srcKey]
	if len(entry.TransOut) != 1 {
		t.Fatalf("expected exactly one bridging edge, got %d", len(entry.TransOut))
	}
	edge := entry.TransOut[0]

	if edge.Guard.Kind != ta.CCAtomic || edge.Guard.Clock != xg || edge.Guard.Op != ta.LE || edge.Guard.K != 10 {
		t.Errorf("expected guard x_g <= 10, got %+v", edge.Guard)
	}
	if !edge.Reset[xg] {
		t.Error("expected the bridging edge to reset x_g")
	}
}

func TestUntilChainUnknownPlanActionIsNoop(t *testing.T) {
	p := buildChainPlan()
	tls := seedChainTimelines(p)
	enc := New(p)

	d := descriptor.NewChain("chain1", "missing", []descriptor.TargetSpec{
		descriptor.NewTargetSpec(ta.NewBound(0, ta.NonStrict, 10, ta.NonStrict), "p2"),
	}, plan.EndId)
	before := enc.counter
	enc.UntilChain(tls, d)
	if enc.counter != before {
		t.Error("expected no clock allocation when trigger plan action is unknown")
	}
}
