package timeline

import "testing"

func TestMakeIdAndSplitRoundTrip(t *testing.T) {
	id := MakeId("p0", "inv1", "s0")
	if SplitPA(id) != "p0" {
		t.Errorf("expected pa p0, got %s", SplitPA(id))
	}
	if SplitConstraintTag(id) != "inv1" {
		t.Errorf("expected tag inv1, got %s", SplitConstraintTag(id))
	}
	if SplitBase(id) != "s0" {
		t.Errorf("expected base s0, got %s", SplitBase(id))
	}
}

func TestMakeIdWithEmptyTag(t *testing.T) {
	id := MakeId("p0", "", "s0")
	if SplitConstraintTag(id) != "" {
		t.Errorf("expected empty tag, got %q", SplitConstraintTag(id))
	}
	if SplitPA(id) != "p0" || SplitBase(id) != "s0" {
		t.Errorf("unexpected split of %q", id)
	}
}

func TestAddPrefix(t *testing.T) {
	if AddPrefix("", "s0") != "s0" {
		t.Error("expected no-op on empty prefix")
	}
	got := AddPrefix("w1", "s0")
	if got != "w1"+string(BaseSep)+"s0" {
		t.Errorf("got %q", got)
	}
}

func TestJoinActions(t *testing.T) {
	if JoinActions("", "") != "" {
		t.Error("expected empty join")
	}
	if JoinActions("a", "") != "a" {
		t.Error("expected a alone")
	}
	if JoinActions("a", "b") != "a"+string(ActionSep)+"b" {
		t.Error("expected joined with ActionSep")
	}
}
