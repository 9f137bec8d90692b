// Package encoder implements the constraint-encoding operators (C7) and
// the product-of-encodings operation (C8): Invariant, NoOp, Future,
// Past, Until, Since, and UntilChain, each consuming a descriptor
// already matched against the plan and mutating a
// timeline.PlanOrderedTLs in place.
//
// Grounded on the original taptenc source's encoder/direct_encoder.h/.cpp
// (generateEncoding / encodeFuture / encodePast / encodeUntilChain) and,
// for computeContext, direct_encoder.cpp's calculateContext with the
// bug fix documented in spec.md §9 (see context.go).
package encoder

import (
	"fmt"
	"os"

	"github.com/wbrown/tasched/internal/tlog"
	"github.com/wbrown/tasched/ta"
	"github.com/wbrown/tasched/ta/automaton"
	"github.com/wbrown/tasched/ta/descriptor"
	"github.com/wbrown/tasched/ta/filter"
	"github.com/wbrown/tasched/ta/plan"
	"github.com/wbrown/tasched/ta/timeline"
)

// Encoder carries the single encoder instance's fresh-clock counter
// (spec.md §5: "scoped to one encoder instance") plus the plan it
// encodes against.
type Encoder struct {
	Plan    plan.Plan
	Verbose bool
	counter int64
	log     *tlog.Logger
}

// New creates an Encoder over the given plan.
func New(p plan.Plan) *Encoder {
	return &Encoder{Plan: p}
}

// Clone returns an independent Encoder over the same plan, carrying its
// own copy of the fresh-clock counter (spec.md §5: "callers are expected
// to clone an encoder before applying operations they may wish to
// undo"). Pair with timeline.PlanOrderedTLs.Clone on the tentative
// tls itself: the tls clone holds the undoable state. Both encoders
// continue from the same counter value, so a fresh clock allocated in
// each under the same operator instance name gets the same name, and
// through InternClock the same clock.
func (e *Encoder) Clone() *Encoder {
	return &Encoder{Plan: e.Plan, Verbose: e.Verbose, counter: e.counter}
}

// logf emits a trace-level diagnostic naming which operator fired and
// against which descriptor, gated behind Verbose exactly as
// annotations.OutputFormatter's output is gated behind -verbose.
func (e *Encoder) logf(format string, args ...any) {
	if !e.Verbose {
		return
	}
	if e.log == nil {
		e.log = tlog.New(os.Stderr, true)
	}
	e.log.Debugf(format, args...)
}

// freshClock allocates the next x_γ clock for operator instance name,
// guaranteeing I3 (pairwise-disjoint fresh clocks) within this encoder
// by virtue of the per-instance counter. Merge does not rename clocks, so
// two encoders that allocate under the same instance name and counter
// value share that clock in the merged encoding.
func (e *Encoder) freshClock(instanceName string) *ta.Clock {
	e.counter++
	return ta.InternClock(fmt.Sprintf("%s_g%d", instanceName, e.counter))
}

// ResolveTrigger finds the first plan action (in plan order) whose name
// matches trigger, returning its plan index and the resulting bindings.
// Returns ok=false on no match (spec.md §7: a descriptor-mismatch is
// silently skipped, never an error).
func ResolveTrigger(p plan.Plan, trigger plan.ActionName) (k int, bindings map[string]string, ok bool) {
	for i, act := range p.Actions {
		if b, matched := trigger.Match(act.Name); matched {
			return i, b, true
		}
	}
	return 0, nil, false
}

// Invariant restricts timeline[pa(d)] to d's targets, and masks every
// cross-timeline edge from the preceding timeline into it by the same
// filter. Introduces no new copies or clocks. Grounded on spec.md §4.6.
func (e *Encoder) Invariant(tls *timeline.PlanOrderedTLs, d descriptor.Descriptor) {
	e.logf("Invariant: %s at %s", d.Name, d.PlanActionId)
	k := e.Plan.IndexOf(d.PlanActionId)
	if k <= 0 {
		return
	}
	f := filter.New(d.Spec.Targets, false)
	pa := e.Plan.Actions[k].Id
	prevPA := e.Plan.Actions[k-1].Id

	if tl, ok := tls.TLs[pa]; ok {
		for _, entry := range tl {
			inverted := filter.Filter{Locations: f.Locations, InvertEffect: !f.InvertEffect}
			inverted.FilterAutomatonInPlace(entry.TA, "")
		}
	}
	e.maskIncomingEdges(tls, prevPA, pa, f)
}

// NoOp is Invariant without restricting timeline[pa(d)] itself — only
// edges into it are masked. Grounded on spec.md §4.6.
func (e *Encoder) NoOp(tls *timeline.PlanOrderedTLs, d descriptor.Descriptor) {
	e.logf("NoOp: %s at %s", d.Name, d.PlanActionId)
	k := e.Plan.IndexOf(d.PlanActionId)
	if k <= 0 {
		return
	}
	f := filter.New(d.Spec.Targets, false)
	pa := e.Plan.Actions[k].Id
	prevPA := e.Plan.Actions[k-1].Id
	e.maskIncomingEdges(tls, prevPA, pa, f)
}

// maskIncomingEdges restricts every outgoing edge of prevPA's timeline
// that lands in pa's timeline to those whose destination matches f.
func (e *Encoder) maskIncomingEdges(tls *timeline.PlanOrderedTLs, prevPA, pa string, f filter.Filter) {
	tl, ok := tls.TLs[prevPA]
	if !ok {
		return
	}
	for id, entry := range tl {
		inverted := filter.Filter{Locations: f.Locations, InvertEffect: !f.InvertEffect}
		entry.TransOut = inverted.FilterTransitionsInPlace(entry.TransOut, pa, false)
		tl[id] = entry
	}
}

// Future clones a window over the plan actions reachable within d's
// time bound, bridges it from and back to the original timelines, and
// merges it in. Grounded on spec.md §4.6.
func (e *Encoder) Future(tls *timeline.PlanOrderedTLs, d descriptor.Descriptor) {
	e.logf("Future: %s at %s bound=%v", d.Name, d.PlanActionId, d.Spec.Bounds)
	k := e.Plan.IndexOf(d.PlanActionId)
	if k <= 0 {
		return
	}
	a, b := ComputeContext(e.Plan, k, Forward, d.Spec.Bounds, 0, 0)
	startId, endId := indexRange(e.Plan, a, b)
	opName := d.Name
	xg := e.freshClock(opName)

	win := tls.CreateWindow(startId, endId, filter.New(d.Spec.Targets, false), opName)

	prevPA := e.Plan.Actions[k-1].Id
	if tl, ok := tls.TLs[prevPA]; ok {
		for id, entry := range tl {
			entry.TransOut = timeline.ModifyTransitionsToNextTl(entry.TransOut, prevPA, d.Spec.Targets, ta.True(), []*ta.Clock{xg}, "", "")
			tl[id] = entry
		}
	}

	if !d.Spec.Bounds.IsUnbounded() {
		win.AddStateInvariantToWindow(startId, endId, ta.Atomic(xg, ta.LE, d.Spec.Bounds.U))
	}

	origMap := win.CreateOrigMapping(opName)
	tls.CreateTransitionsToWindow(nil, win.TLs, origMap, startId, endId, filter.New(d.Spec.Targets, false), d.Spec.Bounds.ToConstraint(xg), nil)

	lastPA := endId
	if lastTl, ok := win.TLs[lastPA]; ok {
		for id, entry := range lastTl {
			entry.TransOut = timeline.RemoveTransitionsToNextTl(entry.TransOut, lastPA)
			lastTl[id] = entry
		}
	}

	tls.MergeWindow(win.TLs, true)
}

// Past is Future's backward-directed symmetric counterpart (spec.md
// §4.6).
func (e *Encoder) Past(tls *timeline.PlanOrderedTLs, d descriptor.Descriptor) {
	e.logf("Past: %s at %s bound=%v", d.Name, d.PlanActionId, d.Spec.Bounds)
	k := e.Plan.IndexOf(d.PlanActionId)
	if k <= 0 {
		return
	}
	a, b := ComputeContext(e.Plan, k-1, Backward, d.Spec.Bounds, 0, 0)
	startId, endId := indexRange(e.Plan, b, a) // a >= b; window is [b, a]
	opName := d.Name
	xg := e.freshClock(opName)

	win := tls.CreateWindow(startId, endId, filter.New(d.Spec.Targets, false), opName)

	if !d.Spec.Bounds.IsUnbounded() {
		win.AddStateInvariantToWindow(startId, endId, ta.Atomic(xg, ta.LE, d.Spec.Bounds.U))
	}

	origMap := win.CreateOrigMapping(opName)
	tls.CreateTransitionsToWindow(nil, win.TLs, origMap, startId, endId, filter.New(d.Spec.Targets, false), ta.True(), []*ta.Clock{xg})

	pa := e.Plan.Actions[k].Id
	if lastTl, ok := win.TLs[endId]; ok {
		guard := ta.True()
		if d.Spec.Bounds.L > 0 {
			guard = ta.Atomic(xg, ta.GE, d.Spec.Bounds.L)
		}
		for id, entry := range lastTl {
			back := automaton.NewEdge(entry.TA.Prefix, pa)
			back.Guard = guard.Clone()
			entry.TransOut = append(entry.TransOut, back)
			lastTl[id] = entry
		}
	}

	tls.MergeWindow(win.TLs, true)
}

// Until is Future plus restricting the pre-trigger window to preTargets
// (spec.md §4.6).
func (e *Encoder) Until(tls *timeline.PlanOrderedTLs, d descriptor.Descriptor) {
	e.Future(tls, d)
	e.restrictPreTargets(tls, d, Forward)
}

// Since is Past plus restricting the pre-trigger window to preTargets
// (spec.md §4.6).
func (e *Encoder) Since(tls *timeline.PlanOrderedTLs, d descriptor.Descriptor) {
	e.Past(tls, d)
	e.restrictPreTargets(tls, d, Backward)
}

// restrictPreTargets implements Until's and Since's asymmetric preTarget
// restriction (spec.md §4.6). Until restricts only original-timeline
// copies (no `γ` op in their stack) within the forward context window
// `[πₖ, π_k+contextSize]` and masks the πₖ₋₁→πₖ boundary edges by
// Filter(preTarget); Since restricts both the new window copies and the
// original copies within its backward context window, and additionally
// drops outgoing edges from original copies that point outside
// preTarget (FilterAutomatonInPlace only prunes a TA's own locations and
// intra-automaton edges, not its cross-timeline TransOut, so that part
// needs its own pass).
func (e *Encoder) restrictPreTargets(tls *timeline.PlanOrderedTLs, d descriptor.Descriptor, dir Direction) {
	if len(d.PreTargets) == 0 {
		return
	}
	k := e.Plan.IndexOf(d.PlanActionId)
	if k <= 0 {
		return
	}
	f := filter.New(d.PreTargets, false)
	inverted := filter.Filter{Locations: f.Locations, InvertEffect: !f.InvertEffect}

	var a, b int
	if dir == Forward {
		a, b = ComputeContext(e.Plan, k, Forward, d.Spec.Bounds, 0, 0)
	} else {
		a, b = ComputeContext(e.Plan, k-1, Backward, d.Spec.Bounds, 0, 0)
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}

	for idx := lo; idx <= hi; idx++ {
		pa := e.Plan.Actions[idx].Id
		tl, ok := tls.TLs[pa]
		if !ok {
			continue
		}
		for id, entry := range tl {
			isNew := descriptorTagOf(entry.TA.Prefix) != ""
			if dir == Forward && isNew {
				continue // Until restricts only the original timeline
			}
			inverted.FilterAutomatonInPlace(entry.TA, "")
			if dir == Backward && !isNew {
				entry.TransOut = inverted.FilterTransitionsInPlace(entry.TransOut, "", false)
			}
			tl[id] = entry
		}
	}

	if dir == Forward {
		pa := e.Plan.Actions[k].Id
		prevPA := e.Plan.Actions[k-1].Id
		e.maskIncomingEdges(tls, prevPA, pa, f)
	}
}

func descriptorTagOf(prefix string) string {
	return timeline.SplitConstraintTag(prefix)
}
