package ta

import "testing"

func TestAndShortCircuitsOnTrue(t *testing.T) {
	c := InternClock("x")
	atomic := Atomic(c, LT, 5)

	if got := And(True(), atomic); got != atomic {
		t.Errorf("And(True, a) = %v, want a unchanged", got)
	}
	if got := And(atomic, True()); got != atomic {
		t.Errorf("And(a, True) = %v, want a unchanged", got)
	}
}

func TestAndRightAssociates(t *testing.T) {
	c := InternClock("y")
	a := Atomic(c, LT, 1)
	b := Atomic(c, LT, 2)
	d := Atomic(c, LT, 3)

	got := And(a, And(b, d))
	if got.Kind != CCAnd || got.Left != a {
		t.Fatalf("expected top-level And(a, ...), got %+v", got)
	}
	if got.Right.Kind != CCAnd || got.Right.Left != b || got.Right.Right != d {
		t.Fatalf("expected right-associated tail, got %+v", got.Right)
	}
}

func TestReverseOp(t *testing.T) {
	cases := map[CompareOp]CompareOp{
		LT: GT, GT: LT, LE: GE, GE: LE, EQ: EQ, NE: NE,
	}
	for in, want := range cases {
		if got := ReverseOp(in); got != want {
			t.Errorf("ReverseOp(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestInvertOp(t *testing.T) {
	cases := map[CompareOp]CompareOp{
		LT: GE, GE: LT, LE: GT, GT: LE, EQ: NE, NE: EQ,
	}
	for in, want := range cases {
		if got := InvertOp(in); got != want {
			t.Errorf("InvertOp(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestIsDownwardClosedRejectsGTAndNE(t *testing.T) {
	c := InternClock("z")
	if !True().IsDownwardClosed() {
		t.Error("True should be downward closed")
	}
	if !Atomic(c, LE, 3).IsDownwardClosed() {
		t.Error("<= should be downward closed")
	}
	if Atomic(c, GT, 3).IsDownwardClosed() {
		t.Error("> should not be downward closed")
	}
	if Atomic(c, NE, 3).IsDownwardClosed() {
		t.Error("!= should not be downward closed")
	}
	nested := And(Atomic(c, LE, 3), Atomic(c, GT, 1))
	if nested.IsDownwardClosed() {
		t.Error("conjunction containing > should not be downward closed")
	}
}

func TestClocksUsedCollectsAllLeaves(t *testing.T) {
	c1 := InternClock("a")
	c2 := InternClock("b")
	cc := And(Atomic(c1, LT, 1), Diff(c1, c2, LE, 2))

	used := cc.ClocksUsed(nil)
	if len(used) != 3 {
		t.Fatalf("expected 3 clock references, got %d", len(used))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := InternClock("clone")
	orig := And(Atomic(c, LT, 1), Atomic(c, LT, 2))
	clone := orig.Clone()

	if clone == orig || clone.Left == orig.Left {
		t.Error("Clone should allocate new nodes")
	}
	if clone.String() != orig.String() {
		t.Error("Clone should render identically to the original")
	}
}
