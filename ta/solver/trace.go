package solver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wbrown/tasched/ta"
	"github.com/wbrown/tasched/ta/automaton"
	"github.com/wbrown/tasched/ta/timeline"
)

// zeroRef names the DBM's reference clock, fixed at 0 for every symbolic
// state; every other clock's bound is expressed relative to it.
const zeroRef = "t(0)"

// ScheduleEntry is one resolved schedule line: the absolute start time of
// a plan action, recovered from the trace (spec.md §4.11).
type ScheduleEntry struct {
	Time   int
	Action string
}

// ParseTrace decodes a .trace file (alternating "Transition: ..." and
// "State: ..." blocks, per spec.md §6) into a schedule: for every
// transition that crosses from one plan-action timeline into another,
// the plan TA's edge of that name gives the action label, and the
// immediately following State block's DBM gives that action's absolute
// start time via the global clock's lower bound.
//
// Grounded on the original source's UTAPTraceParser::parseTraceInfo, with
// its raw-string "proc.id" trace format simplified per spec.md §6's
// described "<src> -> <dst> { guard ; sync ; update ; }" shape (no
// component prefix to strip).
func ParseTrace(data []byte, planTA *automaton.Automaton) ([]ScheduleEntry, error) {
	lines := strings.Split(string(data), "\n")

	var entries []ScheduleEntry
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "Transition:") {
			continue
		}
		trans, err := parseTransitionLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ta.ErrNoSchedule, err)
		}

		action, crosses := resolveAction(trans, planTA)
		if !crosses {
			continue
		}

		stateLine, ok := nextStateLine(lines, i+1)
		if !ok {
			return nil, fmt.Errorf("%w: transition with no following state block", ta.ErrNoSchedule)
		}
		lb, err := parseStateLine(stateLine)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ta.ErrNoSchedule, err)
		}
		entries = append(entries, ScheduleEntry{Time: lb, Action: action})
	}
	return entries, nil
}

// traceTransition is one parsed "Transition: ..." line.
type traceTransition struct {
	Source, Dest           string
	Guard, Sync, Update string
}

func parseTransitionLine(line string) (traceTransition, error) {
	body := strings.TrimSpace(strings.TrimPrefix(line, "Transition:"))
	arrow := strings.Index(body, "->")
	brace := strings.Index(body, "{")
	if arrow < 0 || brace < 0 || brace < arrow {
		return traceTransition{}, fmt.Errorf("malformed transition line: %q", line)
	}
	source := strings.TrimSpace(body[:arrow])
	dest := strings.TrimSpace(body[arrow+2 : brace])
	closeIdx := strings.LastIndex(body, "}")
	if closeIdx < brace {
		return traceTransition{}, fmt.Errorf("malformed transition line: %q", line)
	}
	fields := strings.Split(body[brace+1:closeIdx], ";")
	get := func(i int) string {
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}
	return traceTransition{
		Source: source,
		Dest:   dest,
		Guard:  get(0),
		Sync:   get(1),
		Update: get(2),
	}, nil
}

// resolveAction reports the plan action label for a transition that
// crosses from one plan-action timeline to another, and false if the
// transition stays within a single timeline or lands on QUERY (neither
// names an executing action).
func resolveAction(t traceTransition, planTA *automaton.Automaton) (action string, crosses bool) {
	paSource := timeline.SplitPA(t.Source)
	paDest := timeline.SplitPA(t.Dest)
	if paDest == timeline.Query || paSource == paDest {
		return "", false
	}
	for _, e := range planTA.Edges {
		if e.SourceId == paSource && e.DestId == paDest {
			return e.Action, true
		}
	}
	return "", false
}

func nextStateLine(lines []string, from int) (string, bool) {
	for i := from; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "State:") {
			return line, true
		}
		return "", false
	}
	return "", false
}

// parseStateLine parses one "State: <name> src-dst<={=}weight ..." block
// into a DBM and returns the global clock's lower bound, -dist(t(0) ->
// GlobalClockName), recovered via all-pairs shortest paths over the DBM
// graph.
func parseStateLine(line string) (int, error) {
	body := strings.TrimSpace(strings.TrimPrefix(line, "State:"))
	fields := strings.Fields(body)
	if len(fields) < 1 {
		return 0, fmt.Errorf("empty state block")
	}
	// fields[0] is the state's symbolic name; the remainder are DBM edges.
	edges := map[[2]string]int{}
	for _, tok := range fields[1:] {
		dash := strings.Index(tok, "-")
		lt := strings.Index(tok, "<")
		if dash < 0 || lt < 0 || lt < dash {
			continue
		}
		src := tok[:dash]
		dst := tok[dash+1 : lt]
		weightStr := tok[lt+1:]
		weightStr = strings.TrimPrefix(weightStr, "=")
		w, err := strconv.Atoi(weightStr)
		if err != nil {
			return 0, fmt.Errorf("bad dbm weight in %q: %v", tok, err)
		}
		edges[[2]string{src, dst}] = w
	}
	g := newDBMGraph(edges)
	d, ok := g.distance(zeroRef, ta.GlobalClockName)
	if !ok {
		return 0, fmt.Errorf("state block has no path from %s to %s", zeroRef, ta.GlobalClockName)
	}
	return -d, nil
}

const infDist = 1 << 30

// dbmGraph is a dense all-pairs shortest-path table over the clock names
// appearing in one symbolic state's DBM, built with Floyd-Warshall.
// Grounded on the original source's determineSpecialClockBounds, which
// built the same table with boost::graph; this package needs only a
// handful of nodes per state so a plain O(n^3) matrix suffices.
type dbmGraph struct {
	index map[string]int
	dist  [][]int
}

func newDBMGraph(edges map[[2]string]int) *dbmGraph {
	index := map[string]int{}
	for k := range edges {
		if _, ok := index[k[0]]; !ok {
			index[k[0]] = len(index)
		}
		if _, ok := index[k[1]]; !ok {
			index[k[1]] = len(index)
		}
	}
	n := len(index)
	dist := make([][]int, n)
	for i := range dist {
		dist[i] = make([]int, n)
		for j := range dist[i] {
			if i != j {
				dist[i][j] = infDist
			}
		}
	}
	for k, w := range edges {
		i, j := index[k[0]], index[k[1]]
		if w < dist[i][j] {
			dist[i][j] = w
		}
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if dist[i][k] >= infDist {
				continue
			}
			for j := 0; j < n; j++ {
				if dist[k][j] >= infDist {
					continue
				}
				if nd := dist[i][k] + dist[k][j]; nd < dist[i][j] {
					dist[i][j] = nd
				}
			}
		}
	}
	return &dbmGraph{index: index, dist: dist}
}

func (g *dbmGraph) distance(a, b string) (int, bool) {
	i, ok := g.index[a]
	if !ok {
		return 0, false
	}
	j, ok := g.index[b]
	if !ok {
		return 0, false
	}
	d := g.dist[i][j]
	if d >= infDist {
		return 0, false
	}
	return d, true
}
