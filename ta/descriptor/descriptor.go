// Package descriptor models the interconnection-constraint descriptors
// (C4 in the design): the five operator kinds and their target specs,
// triggers, and (for UntilChain) target chains.
//
// Grounded on the original taptenc source's
// encoder/enc_interconnection_info.h, translating its EncICInfo /
// UnaryInfo / BinaryInfo / ChainInfo class hierarchy into a single
// tagged struct in the style already used for ta.ClockConstraint
// (ta/constraint.go), since the five kinds here form a similarly small,
// closed family.
package descriptor

import "github.com/wbrown/tasched/ta"

// Kind names one of the five constraint-encoding operators from
// spec.md §4.4-§4.8 plus the two derived operators Until and Since.
type Kind int

const (
	Invariant Kind = iota
	NoOp
	Future
	Past
	UntilChain
	Until // derived: Future plus a preTarget location restriction
	Since // derived: mirror of Until over the past direction
)

func (k Kind) String() string {
	switch k {
	case Invariant:
		return "Invariant"
	case NoOp:
		return "NoOp"
	case Future:
		return "Future"
	case Past:
		return "Past"
	case UntilChain:
		return "UntilChain"
	case Until:
		return "Until"
	case Since:
		return "Since"
	default:
		return "Unknown"
	}
}

// TargetSpec pairs a time-bound with the set of location ids it applies
// to (the original's targetSpecs).
type TargetSpec struct {
	Bounds  ta.Bound
	Targets []string
}

// NewTargetSpec builds a TargetSpec.
func NewTargetSpec(bounds ta.Bound, targets ...string) TargetSpec {
	return TargetSpec{Bounds: bounds, Targets: append([]string(nil), targets...)}
}

// Descriptor is the tagged union of all five interconnection-constraint
// kinds. Which fields are populated depends on Kind:
//
//   - Invariant, NoOp, Future, Past: Spec only (the original's
//     UnaryInfo).
//   - Until, Since: Spec plus PreTargets, the location set that must hold
//     before the target bound begins (the original's BinaryInfo).
//   - UntilChain: SpecChain plus EndPA, the terminating plan-action id
//     (the original's ChainInfo).
type Descriptor struct {
	Name string
	Kind Kind

	// At which plan action id this descriptor activates (spec.md §4:
	// "constraints activate upon reaching a plan action pa").
	PlanActionId string

	Spec       TargetSpec   // Invariant, NoOp, Future, Past, Until, Since
	PreTargets []string     // Until, Since only
	SpecChain  []TargetSpec // UntilChain only
	EndPA      string       // UntilChain only: terminating plan action id
}

// NewUnary builds an Invariant, NoOp, Future, or Past descriptor.
func NewUnary(name string, kind Kind, planActionId string, spec TargetSpec) Descriptor {
	return Descriptor{Name: name, Kind: kind, PlanActionId: planActionId, Spec: spec}
}

// NewBinary builds an Until or Since descriptor: spec is the target
// bound/set reached after preTargets has held.
func NewBinary(name string, kind Kind, planActionId string, spec TargetSpec, preTargets []string) Descriptor {
	return Descriptor{
		Name:         name,
		Kind:         kind,
		PlanActionId: planActionId,
		Spec:         spec,
		PreTargets:   append([]string(nil), preTargets...),
	}
}

// ToUnary converts a binary descriptor to a unary one by discarding
// PreTargets, mirroring the original's binaryInfo::toUnary.
func (d Descriptor) ToUnary() Descriptor {
	return Descriptor{Name: d.Name, Kind: d.Kind, PlanActionId: d.PlanActionId, Spec: d.Spec}
}

// NewChain builds an UntilChain descriptor out of an ordered list of
// target specs and the plan action id at which the chain must complete.
func NewChain(name string, planActionId string, specChain []TargetSpec, endPA string) Descriptor {
	return Descriptor{
		Name:         name,
		Kind:         UntilChain,
		PlanActionId: planActionId,
		SpecChain:    append([]TargetSpec(nil), specChain...),
		EndPA:        endPA,
	}
}

// IsFutureInfo reports whether d concerns future-directed reasoning
// (Future, Until, UntilChain), mirroring the original's
// encICInfo::isFutureInfo.
func (d Descriptor) IsFutureInfo() bool {
	switch d.Kind {
	case Future, Until, UntilChain:
		return true
	default:
		return false
	}
}

// IsPastInfo reports whether d concerns past-directed reasoning (Past,
// Since), mirroring the original's encICInfo::isPastInfo.
func (d Descriptor) IsPastInfo() bool {
	switch d.Kind {
	case Past, Since:
		return true
	default:
		return false
	}
}
