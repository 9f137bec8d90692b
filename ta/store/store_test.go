package store

import (
	"testing"

	"github.com/wbrown/tasched/ta"
	"github.com/wbrown/tasched/ta/automaton"
)

func buildSamplePlatform() *automaton.Automaton {
	c := ta.InternClock("store_test_clock")
	a := automaton.New("sensor")
	a.AddLocation(automaton.NewLocation("idle", ta.True(), false, true))
	a.AddLocation(automaton.NewLocation("busy", ta.Atomic(c, ta.LE, 10), false, false))
	e := automaton.NewEdge("idle", "busy")
	e.Guard = ta.Diff(c, c, ta.GE, 0)
	e.Reset = automaton.ResetSet(c)
	e.Sync = "start"
	e.Orient = automaton.Emit
	a.AddEdge(e)
	return a
}

func TestPlatformLibraryPutGetRoundTrip(t *testing.T) {
	lib, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer lib.Close()

	want := buildSamplePlatform()
	if err := lib.Put("sensor", want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := lib.Get("sensor")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}

	if got.Prefix != want.Prefix {
		t.Errorf("prefix mismatch: got %q want %q", got.Prefix, want.Prefix)
	}
	if len(got.Locations) != len(want.Locations) {
		t.Fatalf("location count mismatch: got %d want %d", len(got.Locations), len(want.Locations))
	}
	busy, ok := got.Locations["busy"]
	if !ok {
		t.Fatal("expected busy location to round-trip")
	}
	if busy.Invariant.String() != want.Locations["busy"].Invariant.String() {
		t.Errorf("invariant mismatch: got %q want %q", busy.Invariant.String(), want.Locations["busy"].Invariant.String())
	}
	if len(got.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(got.Edges))
	}
	gotEdge := got.Edges[0]
	if gotEdge.Sync != "start" || gotEdge.Orient != automaton.Emit {
		t.Errorf("edge sync/orientation did not round-trip: %+v", gotEdge)
	}
	if len(gotEdge.Reset) != 1 {
		t.Errorf("expected 1 reset clock, got %d", len(gotEdge.Reset))
	}
}

func TestPlatformLibraryGetMissingReturnsNotOK(t *testing.T) {
	lib, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer lib.Close()

	_, ok, err := lib.Get("nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing platform")
	}
}

func TestPlatformLibraryListReturnsAllNames(t *testing.T) {
	lib, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer lib.Close()

	a := buildSamplePlatform()
	if err := lib.Put("sensor-a", a); err != nil {
		t.Fatal(err)
	}
	if err := lib.Put("sensor-b", a); err != nil {
		t.Fatal(err)
	}

	names, err := lib.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 names, got %v", names)
	}
}
