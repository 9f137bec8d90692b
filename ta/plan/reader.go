package plan

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/wbrown/tasched/ta"
)

// ParseError reports the line on which a plan-file parse failure
// occurred, wrapping ta.ErrParseFailure. Grounded on the original
// source's tfd_plan_parser.cpp error reporting, in the idiom of the
// teacher's datalog/edn lexer, which attaches a line number to every
// lexical error.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("plan: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReadPlan parses plan-file text into a Plan. Each non-blank,
// non-comment line has the form:
//
//	<time>: (<head> <arg>*) [<duration>]
//
// where <time> is the absolute-time lower bound at which the action was
// observed to start, (<head> <arg>*) is the grounded action name, and the
// optional trailing [<duration>] gives a duration bound "lo,hi" (hi may
// be "inf"). A line without a bracketed duration gets an unbounded
// duration. Lines beginning with "#" are comments; blank lines are
// skipped. Grounded on parser/tfd_plan_parser.h's token grammar.
func ReadPlan(text string) (Plan, error) {
	var actions []Action
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	seq := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		act, err := parsePlanLine(line, seq)
		if err != nil {
			return Plan{}, &ParseError{Line: lineNo, Err: err}
		}
		actions = append(actions, act)
		seq++
	}
	if err := scanner.Err(); err != nil {
		return Plan{}, &ParseError{Line: lineNo, Err: err}
	}
	return New(actions), nil
}

func parsePlanLine(line string, seq int) (Action, error) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return Action{}, fmt.Errorf("%w: missing ':' separating time from action", ta.ErrParseFailure)
	}
	timeStr := strings.TrimSpace(line[:colon])
	rest := strings.TrimSpace(line[colon+1:])

	t, err := strconv.Atoi(timeStr)
	if err != nil {
		return Action{}, fmt.Errorf("%w: invalid absolute time %q: %v", ta.ErrParseFailure, timeStr, err)
	}

	open := strings.IndexByte(rest, '(')
	close := strings.IndexByte(rest, ')')
	if open < 0 || close < 0 || close < open {
		return Action{}, fmt.Errorf("%w: expected (head arg*) action name", ta.ErrParseFailure)
	}
	name, err := parseActionName(rest[open+1 : close])
	if err != nil {
		return Action{}, err
	}

	dur := ta.UnboundedFrom(0)
	tail := strings.TrimSpace(rest[close+1:])
	if tail != "" {
		dur, err = parseDuration(tail)
		if err != nil {
			return Action{}, err
		}
	}

	return Action{
		Id:       fmt.Sprintf("p%d", seq),
		Name:     name,
		AbsTime:  ta.UnboundedFrom(t),
		Duration: dur,
		ExecTime: -1,
	}, nil
}

func parseActionName(body string) (ActionName, error) {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return ActionName{}, fmt.Errorf("%w: empty action name", ta.ErrParseFailure)
	}
	return NewActionName(fields[0], fields[1:]...), nil
}

func parseDuration(tail string) (ta.Bound, error) {
	if !strings.HasPrefix(tail, "[") || !strings.HasSuffix(tail, "]") {
		return ta.Bound{}, fmt.Errorf("%w: duration must be bracketed, got %q", ta.ErrParseFailure, tail)
	}
	inner := strings.TrimSpace(tail[1 : len(tail)-1])
	parts := strings.SplitN(inner, ",", 2)
	if len(parts) != 2 {
		return ta.Bound{}, fmt.Errorf("%w: duration must be \"lo,hi\", got %q", ta.ErrParseFailure, inner)
	}
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return ta.Bound{}, fmt.Errorf("%w: invalid duration lower bound: %v", ta.ErrParseFailure, err)
	}
	hiStr := strings.TrimSpace(parts[1])
	if hiStr == "inf" {
		return ta.UnboundedFrom(lo), nil
	}
	hi, err := strconv.Atoi(hiStr)
	if err != nil {
		return ta.Bound{}, fmt.Errorf("%w: invalid duration upper bound: %v", ta.ErrParseFailure, err)
	}
	return ta.NewBound(lo, ta.NonStrict, hi, ta.NonStrict), nil
}
