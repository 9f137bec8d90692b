package plan

import "testing"

func TestMatchBindsPatternVars(t *testing.T) {
	pattern := NewActionName("move", "?o", "?from", "?to")
	observed := NewActionName("move", "box1", "roomA", "roomB")

	bindings, ok := pattern.Match(observed)
	if !ok {
		t.Fatal("expected match")
	}
	if bindings["?o"] != "box1" || bindings["?from"] != "roomA" || bindings["?to"] != "roomB" {
		t.Errorf("unexpected bindings: %v", bindings)
	}
}

func TestMatchRejectsHeadMismatch(t *testing.T) {
	pattern := NewActionName("move", "?o")
	observed := NewActionName("lift", "box1")
	if _, ok := pattern.Match(observed); ok {
		t.Fatal("expected no match on head mismatch")
	}
}

func TestMatchRejectsArityMismatch(t *testing.T) {
	pattern := NewActionName("move", "?o", "?from")
	observed := NewActionName("move", "box1")
	if _, ok := pattern.Match(observed); ok {
		t.Fatal("expected no match on arity mismatch")
	}
}

func TestMatchRejectsInconsistentRebinding(t *testing.T) {
	pattern := NewActionName("swap", "?o", "?o")
	observed := NewActionName("swap", "box1", "box2")
	if _, ok := pattern.Match(observed); ok {
		t.Fatal("expected no match: ?o bound to two different values")
	}
}

func TestGroundSubstitutesBoundVars(t *testing.T) {
	pattern := NewActionName("move", "?o", "roomA")
	ground := pattern.Ground(map[string]string{"?o": "box1"})
	if ground.String() != "(move box1 roomA)" {
		t.Errorf("got %q", ground.String())
	}
}

func TestIsGround(t *testing.T) {
	if NewActionName("move", "?o").IsGround() {
		t.Error("expected not ground")
	}
	if !NewActionName("move", "box1").IsGround() {
		t.Error("expected ground")
	}
}

func TestSharedVarsConsistent(t *testing.T) {
	start := map[string]string{"?o": "box1"}
	end := map[string]string{"?o": "box1"}
	if !SharedVarsConsistent(start, end) {
		t.Error("expected consistent")
	}
	end["?o"] = "box2"
	if SharedVarsConsistent(start, end) {
		t.Error("expected inconsistent")
	}
}
