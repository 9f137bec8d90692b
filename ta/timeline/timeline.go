package timeline

import (
	"github.com/wbrown/tasched/ta/automaton"
)

// Entry bundles a single TA copy together with its outgoing transitions
// to the next timeline, mirroring the original's tlEntry.
type Entry struct {
	TA       *automaton.Automaton
	TransOut []automaton.Edge
}

// Clone deep-copies e.
func (e Entry) Clone() Entry {
	out := Entry{TA: e.TA.Clone()}
	for _, t := range e.TransOut {
		out.TransOut = append(out.TransOut, t.Clone())
	}
	return out
}

// TimeLine is a set of TA copies sharing the same plan-action slot,
// keyed by the copy's descriptor tag (the original's TimeLine typedef).
type TimeLine map[string]Entry

// Clone deep-copies tl.
func (tl TimeLine) Clone() TimeLine {
	out := make(TimeLine, len(tl))
	for k, v := range tl {
		out[k] = v.Clone()
	}
	return out
}

// TimeLines is the full plan-ordered encoding: a TimeLine per plan
// action id (the original's TimeLines typedef).
type TimeLines map[string]TimeLine

// Clone deep-copies tls.
func (tls TimeLines) Clone() TimeLines {
	out := make(TimeLines, len(tls))
	for k, v := range tls {
		out[k] = v.Clone()
	}
	return out
}

// PlanOrderedTLs bundles a TimeLines instance together with the
// sequential plan-action ordering whose entries index it, mirroring the
// original's PlanOrderedTLs class.
type PlanOrderedTLs struct {
	TLs     TimeLines
	PAOrder []string
}

// New creates an empty PlanOrderedTLs over the given plan-action order.
func New(paOrder []string) *PlanOrderedTLs {
	return &PlanOrderedTLs{TLs: TimeLines{}, PAOrder: append([]string(nil), paOrder...)}
}

// Clone deep-copies p, letting a caller apply a tentative operator to
// the copy and discard it without disturbing the original (spec.md §5:
// "callers are expected to clone ... before applying operations they may
// wish to undo").
func (p *PlanOrderedTLs) Clone() *PlanOrderedTLs {
	return &PlanOrderedTLs{TLs: p.TLs.Clone(), PAOrder: append([]string(nil), p.PAOrder...)}
}

// InitBaseTimeline seeds a single plan-action slot with one TA copy
// under the "" (plain) descriptor tag, used to bootstrap a
// PlanOrderedTLs from a freshly generated plan automaton before any
// interconnection constraints have been layered on.
func (p *PlanOrderedTLs) InitBaseTimeline(pa string, ta *automaton.Automaton) {
	if p.TLs[pa] == nil {
		p.TLs[pa] = TimeLine{}
	}
	p.TLs[pa][""] = Entry{TA: ta}
}

// CreateOrigMapping builds a map from every location id of every TA copy
// in p.TLs, with prefix prepended via AddPrefix, back to the unprefixed
// location id.
func (p *PlanOrderedTLs) CreateOrigMapping(prefix string) map[string]string {
	out := map[string]string{}
	for _, tl := range p.TLs {
		for _, entry := range tl {
			for id := range entry.TA.Locations {
				out[AddPrefix(prefix, id)] = id
			}
		}
	}
	return out
}

// CollapseTL merges every TA copy within a single TimeLine into one
// automaton, collecting every copy's outgoing transitions into a single
// slice. Mirrors the original's PlanOrderedTLs::collapseTL.
func CollapseTL(tl TimeLine, tlName string) (*automaton.Automaton, []automaton.Edge) {
	out := automaton.New(tlName)
	var outgoing []automaton.Edge
	for _, entry := range tl {
		for id, l := range entry.TA.Locations {
			out.Locations[id] = l
		}
		out.Edges = append(out.Edges, entry.TA.Edges...)
		for c := range entry.TA.Clocks {
			out.Clocks[c] = true
		}
		for b := range entry.TA.BoolVars {
			out.BoolVars[b] = true
		}
		outgoing = append(outgoing, entry.TransOut...)
	}
	return out, outgoing
}

// ReplaceStatesByTA constructs a TimeLine by replacing every location of
// sourceTA with a copy of taToInsert, addressed as
// MakeId(location.Id, "", insertedLocation.Id). When addSuccTrans is
// true, every edge of sourceTA also gets a simultaneous-transition
// counterpart in the inserted copies (mirrors the original's
// PlanOrderedTLs::replaceStatesByTA).
func ReplaceStatesByTA(sourceTA, taToInsert *automaton.Automaton, addSuccTrans bool) TimeLine {
	out := TimeLine{}
	for _, sloc := range sourceTA.Locations {
		copyTA := taToInsert.Clone()
		copyTA.Prefix = sloc.Id
		renamed := automaton.New(sloc.Id)
		idMap := map[string]string{}
		for _, l := range copyTA.Locations {
			newId := MakeId(sloc.Id, "", l.Id)
			idMap[l.Id] = newId
			nl := l
			nl.Id = newId
			renamed.AddLocation(nl)
		}
		for _, e := range copyTA.Edges {
			ne := e
			ne.SourceId = idMap[e.SourceId]
			ne.DestId = idMap[e.DestId]
			renamed.AddEdge(ne)
		}
		out[sloc.Id] = Entry{TA: renamed}
	}
	if addSuccTrans {
		for _, se := range sourceTA.Edges {
			srcEntry := out[se.SourceId]
			dstEntry := out[se.DestId]
			if dstEntry.TA == nil {
				out[se.SourceId] = srcEntry
				continue
			}
			for innerId := range srcEntry.TA.Locations {
				for dstInnerId := range dstEntry.TA.Locations {
					if SplitBase(dstInnerId) == SplitBase(innerId) {
						ne := se.Clone()
						ne.SourceId = innerId
						ne.DestId = dstInnerId
						srcEntry.TransOut = append(srcEntry.TransOut, ne)
					}
				}
			}
			out[se.SourceId] = srcEntry
		}
	}
	return out
}
