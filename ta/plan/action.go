// Package plan provides the plan model (C3 in the design): grounded
// action names, plan actions with absolute-time and duration bounds, the
// synthetic START/END plan actions, the plan-file reader, and the
// chain-shaped plan automaton.
//
// Grounded on the original taptenc source's parser/tfd_plan_parser.h (the
// plan-file tokenizer) and encoder/encoder.h's generatePlanAutomaton.
package plan

import (
	"fmt"
	"strings"
)

// VarPrefix is the reserved character marking a pattern-variable argument
// (e.g. "?o"). Not present in the retrieved original-source slice as a
// literal; chosen disjoint from the separators that were retrieved
// verbatim (see ta/timeline/ids.go).
const VarPrefix = '?'

// ActionName is a symbolic head plus an ordered list of positional
// arguments. Arguments beginning with VarPrefix are pattern variables;
// others are ground.
type ActionName struct {
	Head string
	Args []string
}

// NewActionName constructs an ActionName.
func NewActionName(head string, args ...string) ActionName {
	return ActionName{Head: head, Args: append([]string(nil), args...)}
}

// String renders the action name as "(head arg1 arg2 ...)".
func (a ActionName) String() string {
	if len(a.Args) == 0 {
		return fmt.Sprintf("(%s)", a.Head)
	}
	return fmt.Sprintf("(%s %s)", a.Head, strings.Join(a.Args, " "))
}

// IsGround reports whether every argument of a is a ground term (none
// begin with VarPrefix).
func (a ActionName) IsGround() bool {
	for _, arg := range a.Args {
		if isPatternVar(arg) {
			return false
		}
	}
	return true
}

func isPatternVar(arg string) bool {
	return len(arg) > 0 && arg[0] == VarPrefix
}

// Match attempts to unify a pattern ActionName (this one, which may
// contain pattern variables) against a ground observed ActionName,
// returning the bindings of each pattern variable to its corresponding
// positional argument. Returns ok=false if the heads differ or the
// arities differ (spec.md §3: "arities must match").
func (a ActionName) Match(observed ActionName) (bindings map[string]string, ok bool) {
	if a.Head != observed.Head {
		return nil, false
	}
	if len(a.Args) != len(observed.Args) {
		return nil, false
	}
	bindings = make(map[string]string)
	for i, pat := range a.Args {
		if isPatternVar(pat) {
			if existing, seen := bindings[pat]; seen && existing != observed.Args[i] {
				return nil, false
			}
			bindings[pat] = observed.Args[i]
		} else if pat != observed.Args[i] {
			return nil, false
		}
	}
	return bindings, true
}

// Ground substitutes every pattern variable in a with its binding from
// bindings, returning a new, fully-ground ActionName. Any pattern
// variable without a binding is left as-is.
func (a ActionName) Ground(bindings map[string]string) ActionName {
	out := ActionName{Head: a.Head, Args: make([]string, len(a.Args))}
	for i, arg := range a.Args {
		if isPatternVar(arg) {
			if v, ok := bindings[arg]; ok {
				out.Args[i] = v
				continue
			}
		}
		out.Args[i] = arg
	}
	return out
}

// SharedVarsConsistent reports whether two patterns that mention the same
// pattern variable agree on the argument position bound to it in a pair
// of matched observations. UntilChain's start/end triggers use this to
// reject (start, end) pairs whose shared pattern variables (e.g. both
// mention "?o") refer to different concrete values (spec.md §4.7).
func SharedVarsConsistent(startBindings, endBindings map[string]string) bool {
	for k, v := range startBindings {
		if ev, ok := endBindings[k]; ok && ev != v {
			return false
		}
	}
	return true
}
