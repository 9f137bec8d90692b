package timeline

import (
	"github.com/wbrown/tasched/ta"
	"github.com/wbrown/tasched/ta/automaton"
	"github.com/wbrown/tasched/ta/filter"
)

// paRange locates the [start,end] index range of startPA..endPA within
// paOrder. ok is false if either endpoint is missing, mirroring the
// original's createWindow/createTransitionsToWindow bounds lookup.
func paRange(paOrder []string, startPA, endPA string) (start, end int, ok bool) {
	for i, pa := range paOrder {
		if pa == startPA {
			start = i
			ok = true
			break
		}
	}
	if !ok {
		return 0, 0, false
	}
	for i := start; i < len(paOrder); i++ {
		if paOrder[i] == endPA {
			return start, i, true
		}
	}
	return 0, 0, false
}

// AddToPrefixOnTransitions copies trans, adding prefix to every edge
// matching the inner/outgoing selection flags: an edge is "inner" if its
// source and dest share the same plan-action component (SplitPA).
func AddToPrefixOnTransitions(trans []automaton.Edge, prefix string, onInner, onOutgoing bool) []automaton.Edge {
	var out []automaton.Edge
	for _, t := range trans {
		isInner := SplitPA(t.SourceId) == SplitPA(t.DestId)
		if (isInner && onInner) || (!isInner && onOutgoing) {
			nt := t.Clone()
			nt.SourceId = AddPrefix(prefix, t.SourceId)
			nt.DestId = AddPrefix(prefix, t.DestId)
			out = append(out, nt)
		}
	}
	return out
}

// CreateWindow creates filtered, prefixed copies of every timeline
// between startPA and endPA (inclusive), mirroring the original's
// PlanOrderedTLs::createWindow. Transitions leaving the window (to a
// later plan action) are retained as outgoing; transitions within the
// window are kept as ordinary (filtered) edges on the copied automaton.
func (p *PlanOrderedTLs) CreateWindow(startPA, endPA string, targetFilter filter.Filter, prefixAdd string) *PlanOrderedTLs {
	out := New(p.PAOrder)
	start, end, ok := paRange(p.PAOrder, startPA, endPA)
	if !ok {
		return out
	}
	opName := filter.GetPrefix(prefixAdd, byte(ConstraintSep))
	for i := start; i <= end; i++ {
		pa := p.PAOrder[i]
		tl, present := p.TLs[pa]
		if !present {
			continue
		}
		newTL := TimeLine{}
		for _, entry := range tl {
			taPrefix := AddPrefix(prefixAdd, entry.TA.Prefix)
			copyTA := targetFilter.FilterAutomaton(entry.TA, taPrefix, "", false)

			var copied []automaton.Edge
			if i < end {
				copied = AddToPrefixOnTransitions(entry.TransOut, opName, true, false)
				copied = targetFilter.FilterTransitionsInPlace(copied, "", false)
			} else {
				copied = AddToPrefixOnTransitions(entry.TransOut, opName, true, false)
			}
			copied = targetFilter.FilterTransitionsInPlace(copied, "", true)

			newTL[taPrefix] = Entry{TA: copyTA, TransOut: copied}
		}
		out.TLs[pa] = newTL
	}
	return out
}

// CreateTransitionsToWindow creates copy and successor transitions from
// every TA in the timelines between startPA and endPA into the
// correspondingly-positioned TA of destTLs, where mapToOrig maps a
// destination copy's id back to the original id it was filtered from.
// Mirrors PlanOrderedTLs::createTransitionsToWindow, adding the created
// transitions onto each source entry's TransOut.
func (p *PlanOrderedTLs) CreateTransitionsToWindow(
	baseTA *automaton.Automaton,
	destTLs TimeLines,
	mapToOrig map[string]string,
	startPA, endPA string,
	targetFilter filter.Filter,
	guard *ta.ClockConstraint,
	resets []*ta.Clock,
) {
	start, end, ok := paRange(p.PAOrder, startPA, endPA)
	if !ok {
		return
	}
	for i := start; i <= end; i++ {
		pa := p.PAOrder[i]
		sourceTL, present := p.TLs[pa]
		if !present {
			continue
		}
		destTL, present := destTLs[pa]
		if !present {
			continue
		}
		for sourceId, sourceEntry := range sourceTL {
			for destId, destEntry := range destTL {
				origSrc, okSrc := mapToOrig[sourceId]
				origDst, okDst := mapToOrig[destId]
				if !okSrc || !okDst || origSrc != origDst {
					continue
				}
				var created []automaton.Edge
				for destLocId := range destEntry.TA.Locations {
					e := automaton.NewEdge(sourceEntry.TA.Prefix, destLocId)
					e.Guard = guard.Clone()
					e.Reset = automaton.ResetSet(resets...)
					created = append(created, e)
				}
				created = targetFilter.FilterTransitionsInPlace(created, destId, false)
				sourceEntry.TransOut = append(sourceEntry.TransOut, created...)
			}
			sourceTL[sourceId] = sourceEntry
		}
	}
}

// RemoveTransitionsToNextTl drops every edge from trans whose dest's
// plan-action component differs from currPA.
func RemoveTransitionsToNextTl(trans []automaton.Edge, currPA string) []automaton.Edge {
	kept := trans[:0]
	for _, t := range trans {
		if SplitPA(t.DestId) == currPA {
			kept = append(kept, t)
		}
	}
	return kept
}

// ModifyTransitionsToNextTl conjoins guard and unions resets onto every
// edge of trans whose dest does not belong to currPA, renames the dest
// with opName if non-empty, and then drops every resulting edge whose
// dest does not match one of targetStates. Mirrors
// PlanOrderedTLs::modifyTransitionsToNextTl.
func ModifyTransitionsToNextTl(trans []automaton.Edge, currPA string, targetStates []string, guard *ta.ClockConstraint, resets []*ta.Clock, sync string, opName string) []automaton.Edge {
	for i, t := range trans {
		if SplitPA(t.DestId) == currPA {
			continue
		}
		nt := t.WithGuard(guard).WithReset(automaton.ResetSet(resets...))
		if sync != "" {
			nt.Sync = sync
		}
		if opName != "" {
			nt.DestId = AddPrefix(opName, nt.DestId)
		}
		trans[i] = nt
	}
	kept := trans[:0]
	for _, t := range trans {
		matched := false
		for _, s := range targetStates {
			if filter.MatchesFilter(t.DestId, "", s) {
				matched = true
				break
			}
		}
		if matched {
			kept = append(kept, t)
		}
	}
	return kept
}

// AddStateInvariantToWindow conjoins inv onto every location's invariant
// within every TA copy across every timeline between startPA and endPA.
func (p *PlanOrderedTLs) AddStateInvariantToWindow(startPA, endPA string, inv *ta.ClockConstraint) {
	start, end, ok := paRange(p.PAOrder, startPA, endPA)
	if !ok {
		return
	}
	for i := start; i <= end; i++ {
		pa := p.PAOrder[i]
		tl, present := p.TLs[pa]
		if !present {
			continue
		}
		for _, entry := range tl {
			for id, l := range entry.TA.Locations {
				entry.TA.Locations[id] = l.WithInvariant(inv)
			}
		}
	}
}

// AddOutgoingTransOfOrigTL, for every TA copy in newTL, looks up its
// original TA (via toOrig) in origTL and replays any outgoing
// transitions leaving that original TA (i.e. edges whose source and
// dest plan-action components differ) onto the copy, conjoining guard.
// Mirrors PlanOrderedTLs::addOutgoingTransOfOrigTL.
func AddOutgoingTransOfOrigTL(origTL, newTL TimeLine, toOrig map[string]string, guard *ta.ClockConstraint) {
	for id, entry := range newTL {
		origId, ok := toOrig[id]
		if !ok {
			continue
		}
		origEntry, ok := origTL[origId]
		if !ok {
			continue
		}
		for _, tr := range origEntry.TransOut {
			if SplitPA(tr.SourceId) == SplitPA(tr.DestId) {
				continue
			}
			sourceBase := GetSuffixByte(tr.SourceId, byte(BaseSep))
			var matchedSource string
			found := false
			for locId := range entry.TA.Locations {
				if GetSuffixByte(locId, byte(BaseSep)) == sourceBase {
					matchedSource = locId
					found = true
					break
				}
			}
			if !found {
				continue
			}
			ne := automaton.NewEdge(matchedSource, tr.DestId)
			ne.Action = tr.Action
			ne.Guard = ta.And(tr.Guard.Clone(), guard.Clone())
			ne.Reset = automaton.ResetSet()
			for c := range tr.Reset {
				ne.Reset[c] = true
			}
			ne.Sync = tr.Sync
			entry.TransOut = append(entry.TransOut, ne)
		}
		newTL[id] = entry
	}
}

// GetSuffixByte mirrors filter.GetSuffix for callers within this package
// that only have a byte marker handy (kept as a thin wrapper to avoid an
// import cycle concern and to name the operation the way the original's
// addOutgoingTransOfOrigTL does: "suffix after BASE_SEP").
func GetSuffixByte(name string, marker byte) string {
	return filter.GetSuffix(name, marker)
}

// MergeWindow merges toAdd into p.TLs: a TimeLine absent from p.TLs is
// inserted wholesale; within an existing TimeLine, an absent TA-copy key
// is inserted, and an existing key is replaced only if overwrite is
// true. Mirrors PlanOrderedTLs::mergeWindow.
func (p *PlanOrderedTLs) MergeWindow(toAdd TimeLines, overwrite bool) {
	for pa, tl := range toAdd {
		dest, present := p.TLs[pa]
		if !present {
			p.TLs[pa] = tl.Clone()
			continue
		}
		for key, entry := range tl {
			if _, exists := dest[key]; !exists {
				dest[key] = entry
			} else if overwrite {
				dest[key] = entry
			}
		}
	}
}
