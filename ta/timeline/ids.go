// Package timeline implements the plan-ordered timeline data structure
// (C6 in the design): TlEntry/TimeLine/TimeLines, window construction,
// and the structured identifier grammar used to name TA copies as they
// are cloned, filtered, and re-merged across the plan.
//
// Grounded on the original taptenc source's
// encoder/plan_ordered_tls.h/.cpp and timed-automata/timed_automata.h's
// tlEntry/TimeLine/TimeLines typedefs.
package timeline

// Separator characters used to build structured location/TA identifiers
// out of their plan-action, constraint, and base-location components.
// PaSep, TlSep, ConstraintSep, BaseSep, StartPA, EndPA, and Query are
// retrieved verbatim from the original source's constants.h.
//
// ComponentSep, ActionSep, VarSep, VarPrefix, and SyncSep are referenced
// by name throughout the original source (the merge/product machinery
// and the plan parser) but their literal values were not present in the
// retrieved source slice; they are invented here, chosen to be disjoint
// from the verbatim separators above and from each other.
const (
	PaSep         = 'W' // verbatim: constants::PA_SEP
	TlSep         = 'X' // verbatim: constants::TL_SEP
	ConstraintSep = 'Y' // verbatim: constants::CONSTRAINT_SEP
	BaseSep       = 'Z' // verbatim: constants::BASE_SEP

	ComponentSep = '|' // invented: separates a product TA's component ids
	ActionSep    = '_' // invented: joins concatenated action labels
	VarSep       = ',' // invented: separates bound-variable lists
	VarPrefix    = '?' // invented: marks a pattern-variable argument
	SyncSep      = '!' // invented: separates a sync channel name from its direction marker
)

// StartPA, EndPA, and Query name the synthetic plan actions and the
// query sentinel, retrieved verbatim from constants.h.
const (
	StartPA = "AstartA"
	EndPA   = "AendA"
	Query   = "AQuery"
)

// MakeId builds a structured TA-copy identifier out of a plan-action
// name, an operator/constraint tag, and a base location id, joined by
// the verbatim separators: "<pa>TL_SEP<constraintTag>CONSTRAINT_SEP<base>".
// An empty constraintTag collapses to "<pa>TL_SEP<base>", used for plain
// (unconstrained) plan-action copies.
func MakeId(pa, constraintTag, base string) string {
	if constraintTag == "" {
		return pa + string(TlSep) + base
	}
	return pa + string(TlSep) + constraintTag + string(ConstraintSep) + base
}

// SplitPA returns the plan-action component of a structured id (the
// portion before the first TlSep), or the full id unchanged if TlSep
// does not occur.
func SplitPA(id string) string {
	for i := 0; i < len(id); i++ {
		if id[i] == TlSep {
			return id[:i]
		}
	}
	return id
}

// SplitBase returns the base-location component of a structured id (the
// portion after the last ConstraintSep, or after the first TlSep if no
// ConstraintSep occurs).
func SplitBase(id string) string {
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == ConstraintSep {
			return id[i+1:]
		}
	}
	for i := 0; i < len(id); i++ {
		if id[i] == TlSep {
			return id[i+1:]
		}
	}
	return id
}

// SplitConstraintTag returns the constraint-tag component of a
// structured id ("" if the id has no ConstraintSep, i.e. was built from
// an empty constraintTag).
func SplitConstraintTag(id string) string {
	tlIdx := -1
	for i := 0; i < len(id); i++ {
		if id[i] == TlSep {
			tlIdx = i
			break
		}
	}
	if tlIdx < 0 {
		return ""
	}
	csIdx := -1
	for i := len(id) - 1; i > tlIdx; i-- {
		if id[i] == ConstraintSep {
			csIdx = i
			break
		}
	}
	if csIdx < 0 {
		return ""
	}
	return id[tlIdx+1 : csIdx]
}

// AddPrefix joins a prefix onto an id with BaseSep, the verbatim
// separator used throughout the original source's addToPrefixOnTransitions
// / createOrigMapping for namespacing TA copies under a new window.
func AddPrefix(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return prefix + string(BaseSep) + id
}

// JoinActions concatenates two action labels with ActionSep, skipping
// either side if empty.
func JoinActions(a, b string) string {
	switch {
	case a == "" && b == "":
		return ""
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + string(ActionSep) + b
	}
}
