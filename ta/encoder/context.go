package encoder

import (
	"github.com/wbrown/tasched/ta"
	"github.com/wbrown/tasched/ta/plan"
)

// Direction selects which way computeContext walks the plan from its
// starting index.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// ComputeContext walks p's plan actions from startIdx in the given
// direction, accumulating each action's duration bound (saturating),
// to determine the absolute plan-action index range [a, b] a segment's
// time window W can reach. lbOff/ubOff are running accumulators carried
// across UntilChain segments (zero for a standalone Future/Past).
//
// The walk has two phases:
//   - advance: while the accumulated upper-bound duration remains below
//     lbOff, the current plan action is entirely exhausted before the
//     window's lower bound could apply, so the walk advances past it.
//     This determines a.
//   - extend: continuing from a, while the accumulated lower-bound
//     duration remains below safeAdd(W.U, ubOff), the window may still
//     reach further plan actions. This determines b.
//
// Returns (0, 0) if startIdx is out of range, per spec.md §4.8's
// out-of-range edge case. Grounded on the original taptenc source's
// calculateContext, fixed per spec.md §9: both a and b are computed
// relative to this call's own starting index, unlike the original,
// which reused a single starting_pa for both directions in its backward
// case.
func ComputeContext(p plan.Plan, startIdx int, dir Direction, w ta.Bound, lbOff, ubOff int) (a, b int) {
	n := len(p.Actions)
	if startIdx < 0 || startIdx >= n {
		return 0, 0
	}
	step := 1
	if dir == Backward {
		step = -1
	}

	lbAcc, ubAcc := 0, 0
	idx := startIdx
	for idx >= 0 && idx < n {
		d := p.Actions[idx].Duration
		lbAcc = ta.SafeAdd(lbAcc, d.L)
		ubAcc = ta.SafeAdd(ubAcc, d.U)
		if ubAcc < lbOff {
			idx += step
			continue
		}
		break
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	a = idx

	upperTarget := ta.SafeAdd(w.U, ubOff)
	b = a
	for lbAcc < upperTarget {
		next := b + step
		if next < 0 || next >= n {
			break
		}
		lbAcc = ta.SafeAdd(lbAcc, p.Actions[next].Duration.L)
		b = next
	}
	return a, b
}

// indexRange returns the inclusive plan-action id range between a and b
// (in plan-index order, regardless of which is larger), suitable for
// passing to timeline.PlanOrderedTLs window operations, which always
// address a window by its earlier-first pair of ids.
func indexRange(p plan.Plan, a, b int) (lowId, highId string) {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return p.Actions[lo].Id, p.Actions[hi].Id
}
