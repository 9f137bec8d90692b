package ta

import "fmt"

// CompareOp is one of the six clock-comparison operators supported by the
// constraint algebra. Weak/strong comparisons beyond this set are out of
// scope (spec.md, Non-goals).
type CompareOp int

const (
	LT CompareOp = iota
	LE
	EQ
	NE
	GE
	GT
)

// String renders the operator in its ASCII form.
func (op CompareOp) String() string {
	switch op {
	case LT:
		return "<"
	case LE:
		return "<="
	case EQ:
		return "=="
	case NE:
		return "!="
	case GE:
		return ">="
	case GT:
		return ">"
	default:
		return "?"
	}
}

// ReverseOp swaps the direction of a comparison (reading right-to-left
// instead of left-to-right): < becomes >, <= becomes >=, and = / != are
// unaffected. Grounded on computils::reverseOp in the original source.
func ReverseOp(op CompareOp) CompareOp {
	switch op {
	case LT:
		return GT
	case LE:
		return GE
	case GT:
		return LT
	case GE:
		return LE
	default:
		return op
	}
}

// InvertOp negates a comparison: < becomes >=, <= becomes >, = becomes !=
// and vice versa. Grounded on computils::inverseOp.
func InvertOp(op CompareOp) CompareOp {
	switch op {
	case LT:
		return GE
	case LE:
		return GT
	case GT:
		return LE
	case GE:
		return LT
	case EQ:
		return NE
	case NE:
		return EQ
	default:
		return op
	}
}

// CCKind discriminates the four clock-constraint shapes. Constraints are
// represented as a tagged value rather than an interface hierarchy,
// following the closed-variant-family style the teacher uses for query
// clauses (see query.Comparison/query.Expression in the teacher's
// datalog/query package).
type CCKind int

const (
	CCTrue CCKind = iota
	CCAtomic
	CCDiff
	CCAnd
)

// ClockConstraint is a clock constraint in one of four shapes: True,
// Atomic(c, op, k), Diff(c1, c2, op, k), or And(a, b). Values are
// cloneable by plain copy since every field is either a scalar or a
// pointer to an immutable sub-constraint.
type ClockConstraint struct {
	Kind CCKind

	// Atomic / Diff fields.
	Clock  *Clock
	Clock2 *Clock // only set for CCDiff (the subtrahend)
	Op     CompareOp
	K      int

	// And fields.
	Left  *ClockConstraint
	Right *ClockConstraint
}

// True returns the trivial constraint satisfied by every clock valuation.
func True() *ClockConstraint {
	return &ClockConstraint{Kind: CCTrue}
}

// Atomic returns the constraint `c op k`.
func Atomic(c *Clock, op CompareOp, k int) *ClockConstraint {
	return &ClockConstraint{Kind: CCAtomic, Clock: c, Op: op, K: k}
}

// Diff returns the difference constraint `c1 - c2 op k`.
func Diff(c1, c2 *Clock, op CompareOp, k int) *ClockConstraint {
	return &ClockConstraint{Kind: CCDiff, Clock: c1, Clock2: c2, Op: op, K: k}
}

// IsTrue reports whether cc is the trivial True constraint (nil is also
// treated as True, mirroring the convention that an absent guard is an
// unconditional one).
func (cc *ClockConstraint) IsTrue() bool {
	return cc == nil || cc.Kind == CCTrue
}

// And conjoins two constraints. If either side is True, the other side is
// returned unchanged (no new node is allocated); longer conjunctions are
// right-associated by repeated application, matching spec.md §4.1 ("longer
// conjunctions are right-associated... associativity is not normalized").
func And(a, b *ClockConstraint) *ClockConstraint {
	if a.IsTrue() {
		return b
	}
	if b.IsTrue() {
		return a
	}
	return &ClockConstraint{Kind: CCAnd, Left: a, Right: b}
}

// Clone returns an independent copy of cc. Because every ClockConstraint
// node other than the leaves it shares (Clock handles) is itself
// immutable once constructed, Clone performs a shallow struct copy plus a
// deep copy of the tree shape so that InPlace-style mutators elsewhere in
// this module (none exist on ClockConstraint itself, but callers compose
// fresh constraints routinely) never observe aliasing across copies.
func (cc *ClockConstraint) Clone() *ClockConstraint {
	if cc == nil {
		return nil
	}
	clone := *cc
	if cc.Left != nil {
		clone.Left = cc.Left.Clone()
	}
	if cc.Right != nil {
		clone.Right = cc.Right.Clone()
	}
	return &clone
}

// String renders the constraint as it would be emitted before character
// substitution for XML/XTA output (see ta/xta for the substitution step).
func (cc *ClockConstraint) String() string {
	if cc.IsTrue() {
		return "true"
	}
	switch cc.Kind {
	case CCAtomic:
		return fmt.Sprintf("%s %s %d", cc.Clock, cc.Op, cc.K)
	case CCDiff:
		return fmt.Sprintf("%s - %s %s %d", cc.Clock, cc.Clock2, cc.Op, cc.K)
	case CCAnd:
		return fmt.Sprintf("%s && %s", cc.Left, cc.Right)
	default:
		return "true"
	}
}

// ClocksUsed appends every clock referenced anywhere in cc to out,
// including duplicates; callers that need a set should dedupe by Clock
// identity. Used by invariant-checking code (I2: every clock referenced
// by a guard/invariant/reset is present in some automaton's clock set).
func (cc *ClockConstraint) ClocksUsed(out []*Clock) []*Clock {
	if cc.IsTrue() {
		return out
	}
	switch cc.Kind {
	case CCAtomic:
		out = append(out, cc.Clock)
	case CCDiff:
		out = append(out, cc.Clock, cc.Clock2)
	case CCAnd:
		out = cc.Left.ClocksUsed(out)
		out = cc.Right.ClocksUsed(out)
	}
	return out
}

// IsDownwardClosed reports whether cc is safe to use as a location
// invariant: no `>` and no `!=` anywhere in the tree (spec.md §3).
func (cc *ClockConstraint) IsDownwardClosed() bool {
	if cc.IsTrue() {
		return true
	}
	switch cc.Kind {
	case CCAtomic, CCDiff:
		return cc.Op != GT && cc.Op != NE
	case CCAnd:
		return cc.Left.IsDownwardClosed() && cc.Right.IsDownwardClosed()
	default:
		return true
	}
}
