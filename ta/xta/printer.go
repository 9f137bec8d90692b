// Package xta renders a finalized automaton (the output of ta/finalizer's
// Flatten) to the external solver's input format: one automaton file in
// uppaal 3.0 xta syntax and one query file holding the fixed reachability
// query, per spec.md §6.
//
// Grounded on the original taptenc source's printer/xta_printer.cpp
// (printXTAstart/printXTAtemplate/printXTAsystem), collapsed to the
// single merged automaton this module always hands off — C9's Flatten
// has already unioned every TA copy into one, so there is never a
// multi-template AutomataSystem to print, only a single process.
package xta

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/wbrown/tasched/ta/automaton"
)

// substitution mirrors the xml_printer.cpp family's special-character
// escaping (spec.md §6: "Character substitutions &->&amp;, <->&lt;,
// >->&gt; are applied on all emitted guards and invariants"). xta syntax
// has no XML markup of its own, but the substitution is specified
// unconditionally, so it is applied here too.
var substitution = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeConstraint(s string) string {
	if s == "true" {
		return s
	}
	return substitution.Replace(s)
}

// WriteAutomaton emits a to filename: a clock declaration, a boolean-flag
// declaration, a single process named a.Prefix holding every location and
// edge, and a trailing system declaration instantiating it. Locations and
// edges are emitted in sorted-id order for deterministic output.
func WriteAutomaton(a *automaton.Automaton, filename string) error {
	var b strings.Builder

	if len(a.Clocks) > 0 {
		names := make([]string, 0, len(a.Clocks))
		for c := range a.Clocks {
			names = append(names, c.Name())
		}
		sort.Strings(names)
		b.WriteString("clock ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString(";\n")
	}

	if len(a.BoolVars) > 0 {
		names := make([]string, 0, len(a.BoolVars))
		for v := range a.BoolVars {
			names = append(names, v)
		}
		sort.Strings(names)
		for _, v := range names {
			fmt.Fprintf(&b, "bool %s = false;\n", v)
		}
	}

	fmt.Fprintf(&b, "process %s() {\n", a.Prefix)

	locIds := make([]string, 0, len(a.Locations))
	for id := range a.Locations {
		locIds = append(locIds, id)
	}
	sort.Strings(locIds)

	initId := ""
	for _, id := range locIds {
		if a.Locations[id].Initial {
			initId = id
			break
		}
	}
	if initId == "" && len(locIds) > 0 {
		// No location marked initial: fall back to the first in sorted
		// order, mirroring printXTAtemplate's own fallback.
		initId = locIds[0]
	}

	b.WriteString("state ")
	for i, id := range locIds {
		if i > 0 {
			b.WriteString(", ")
		}
		loc := a.Locations[id]
		b.WriteString(loc.Id)
		if !loc.Invariant.IsTrue() {
			fmt.Fprintf(&b, " {%s}", escapeConstraint(loc.Invariant.String()))
		}
	}
	b.WriteString(";\n")
	fmt.Fprintf(&b, "init %s;\n", initId)

	b.WriteString("trans")
	for i, e := range a.Edges {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n    ")
		b.WriteString(transitionToXTA(e))
	}
	b.WriteString(";\n}\n")

	fmt.Fprintf(&b, "system sys_%s = %s();\n", a.Prefix, a.Prefix)

	return os.WriteFile(filename, []byte(b.String()), 0o644)
}

func transitionToXTA(e automaton.Edge) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s -> %s { ", e.SourceId, e.DestId)
	if !e.Guard.IsTrue() {
		fmt.Fprintf(&b, "guard %s; ", escapeConstraint(e.Guard.String()))
	}
	if e.Sync != "" {
		if e.Orient == automaton.Receive {
			fmt.Fprintf(&b, "sync %s?; ", e.Sync)
		} else {
			fmt.Fprintf(&b, "sync %s!; ", e.Sync)
		}
	}
	if len(e.Reset) > 0 {
		names := make([]string, 0, len(e.Reset))
		for c := range e.Reset {
			names = append(names, c.Name())
		}
		sort.Strings(names)
		assigns := make([]string, len(names))
		for i, n := range names {
			assigns[i] = n + " = 0"
		}
		fmt.Fprintf(&b, "assign %s; ", strings.Join(assigns, ", "))
	}
	b.WriteString("}")
	return b.String()
}

// WriteQuery emits the fixed reachability query "the QUERY location of
// the merged automaton is reachable" as a single uppaal query-file line.
// Grounded on uppaal_calls.cpp's solve(), which writes query_str verbatim
// to "<file_name>.q" before invoking verifyta.
func WriteQuery(a *automaton.Automaton, queryLoc, filename string) error {
	query := fmt.Sprintf("E<> sys_%s.%s", a.Prefix, queryLoc)
	return os.WriteFile(filename, []byte(query+"\n"), 0o644)
}

// Print writes both the automaton file and the query file for a finalized
// automaton, the two artifacts the external solver boundary consumes.
func Print(a *automaton.Automaton, queryLoc, automatonPath, queryPath string) error {
	if err := WriteAutomaton(a, automatonPath); err != nil {
		return fmt.Errorf("xta: writing automaton: %w", err)
	}
	if err := WriteQuery(a, queryLoc, queryPath); err != nil {
		return fmt.Errorf("xta: writing query: %w", err)
	}
	return nil
}
