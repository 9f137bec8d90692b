package encoder

import (
	"fmt"
	"strings"

	"github.com/wbrown/tasched/ta"
	"github.com/wbrown/tasched/ta/automaton"
	"github.com/wbrown/tasched/ta/descriptor"
	"github.com/wbrown/tasched/ta/filter"
	"github.com/wbrown/tasched/ta/timeline"
)

// UntilChain encodes an ordered sequence of target specs that must hold
// in succession between d.PlanActionId and d.EndPA, sharing a single
// fresh clock x_γ across every segment so each segment's bound is
// measured from where the chain entered that segment. Grounded on
// the original taptenc source's encodeUntilChain in direct_encoder.cpp,
// per spec.md §4.7. This operator only sees ground ids and does not
// check pattern-variable consistency between the chain's trigger and its
// terminator; plan.SharedVarsConsistent implements that check, and no
// code in this module calls it before a Descriptor is constructed.
func (e *Encoder) UntilChain(tls *timeline.PlanOrderedTLs, d descriptor.Descriptor) {
	e.logf("UntilChain: %s from %s to %s (%d segments)", d.Name, d.PlanActionId, d.EndPA, len(d.SpecChain))
	if len(d.SpecChain) == 0 {
		return
	}
	startK := e.Plan.IndexOf(d.PlanActionId)
	if startK <= 0 {
		return
	}
	if e.Plan.IndexOf(d.EndPA) < 0 {
		return
	}

	opName := d.Name
	xg := e.freshClock(opName)

	lbAcc, ubAcc := 0, 0
	prevPA := e.Plan.Actions[startK-1].Id
	var prevWin *timeline.PlanOrderedTLs
	var prevSeg descriptor.TargetSpec
	prevEndId, prevSegName := "", ""

	for j, seg := range d.SpecChain {
		a, b := ComputeContext(e.Plan, startK, Forward, seg.Bounds, lbAcc, ubAcc)
		startId, endId := indexRange(e.Plan, a, b)
		segName := fmt.Sprintf("%sF%d", opName, j)

		win := tls.CreateWindow(startId, endId, filter.New(seg.Targets, false), segName)

		if prevWin == nil {
			if tl, ok := tls.TLs[prevPA]; ok {
				for id, entry := range tl {
					entry.TransOut = timeline.ModifyTransitionsToNextTl(entry.TransOut, prevPA, seg.Targets, ta.True(), []*ta.Clock{xg}, "", "")
					tl[id] = entry
				}
			}
		} else {
			// Bridging into segment j requires segment j-1's own bound to
			// have been met (spec.md §4.7 step 4), and resets x_γ so the
			// invariant just below measures time since entering segment j,
			// not cumulative time since the chain began.
			bridgeWindowTail(prevWin, prevSegName, prevEndId, win, segName, startId, prevSeg.Bounds.ToConstraint(xg), []*ta.Clock{xg})
		}

		if !seg.Bounds.IsUnbounded() {
			win.AddStateInvariantToWindow(startId, endId, ta.Atomic(xg, ta.LE, seg.Bounds.U))
		}

		if j == len(d.SpecChain)-1 {
			if lastTl, ok := win.TLs[endId]; ok {
				for id, entry := range lastTl {
					entry.TransOut = timeline.RemoveTransitionsToNextTl(entry.TransOut, endId)
					lastTl[id] = entry
				}
			}
			origMap := win.CreateOrigMapping(opName)
			timeline.AddOutgoingTransOfOrigTL(tls.TLs[endId], win.TLs[endId], origMap, seg.Bounds.ToConstraint(xg))
		}

		tls.MergeWindow(win.TLs, true)

		lbAcc = ta.SafeAdd(lbAcc, seg.Bounds.L)
		ubAcc = ta.SafeAdd(ubAcc, seg.Bounds.U)
		prevWin, prevSegName, prevSeg = win, segName, seg
		prevEndId = endId
	}
}

// bridgeWindowTail connects every TA copy at src.TLs[srcPA] to the TA
// copy at dst.TLs[dstPA] it was derived from, via an edge guarded by the
// previous segment's own bound and resetting resets (spec.md §4.7 step
// 4: "else the previous segment's satisfaction constraint ... on the
// edge (reset x_γ)"), addressed by TA.Prefix (CreateWindow's own
// cross-TA addressing convention). src and dst were built by independent
// CreateWindow calls over the same original timelines under
// srcPrefix/dstPrefix respectively, so an entry's original TA.Prefix is
// recovered by stripping its own window's prefix, and two entries bridge
// when that recovered original prefix agrees.
func bridgeWindowTail(src *timeline.PlanOrderedTLs, srcPrefix, srcPA string, dst *timeline.PlanOrderedTLs, dstPrefix, dstPA string, guard *ta.ClockConstraint, resets []*ta.Clock) {
	srcTL, ok := src.TLs[srcPA]
	if !ok {
		return
	}
	dstTL, ok := dst.TLs[dstPA]
	if !ok {
		return
	}
	origOf := func(prefix, key string) string {
		return strings.TrimPrefix(key, prefix+string(timeline.BaseSep))
	}
	for srcKey, srcEntry := range srcTL {
		srcOrig := origOf(srcPrefix, srcKey)
		for dstKey, dstEntry := range dstTL {
			if origOf(dstPrefix, dstKey) != srcOrig {
				continue
			}
			e := automaton.NewEdge(srcEntry.TA.Prefix, dstEntry.TA.Prefix)
			e.Guard = guard.Clone()
			e.Reset = automaton.ResetSet(resets...)
			srcEntry.TransOut = append(srcEntry.TransOut, e)
		}
		srcTL[srcKey] = srcEntry
	}
}
