package plan

import (
	"fmt"

	"github.com/wbrown/tasched/ta"
	"github.com/wbrown/tasched/ta/automaton"
)

// StartId and EndId name the synthetic plan actions framing every plan,
// taken verbatim from the original source's constants.h (START_PA /
// END_PA), and QueryId names the synthetic acceptance sentinel (QUERY).
const (
	StartId = "AstartA"
	EndId   = "AendA"
	QueryId = "AQuery"
)

// PlanClockName is the global plan clock reset on every plan-action
// transition (named "cpa" in the original source's generatePlanAutomaton).
const PlanClockName = "cpa"

// Action is a single plan action: a grounded name, an absolute-time
// bound, and a duration bound. ExecTime and Tolerance are filled in only
// once a schedule has been computed by the external solver (spec.md §3:
// "derived during scheduling").
type Action struct {
	Id       string // plan-order identifier, typically "p<i>" or StartId/EndId
	Name     ActionName
	AbsTime  ta.Bound
	Duration ta.Bound

	ExecTime  int // -1 until filled in by the trace decoder
	Tolerance ta.Bound
}

// Start returns the synthetic START plan action: maximally permissive
// duration, occurring before the first real action.
func Start() Action {
	return Action{
		Id:       StartId,
		Name:     NewActionName("start"),
		AbsTime:  ta.UnboundedFrom(0),
		Duration: ta.UnboundedFrom(0),
		ExecTime: -1,
	}
}

// End returns the synthetic END plan action: maximally permissive
// duration, occurring after the last real action.
func End() Action {
	return Action{
		Id:       EndId,
		Name:     NewActionName("end"),
		AbsTime:  ta.UnboundedFrom(0),
		Duration: ta.UnboundedFrom(0),
		ExecTime: -1,
	}
}

// Plan is the full sequential plan: START, followed by the grounded plan
// actions in order, followed by END. PlanOrder additionally appends the
// QUERY sentinel (spec.md §3 "Plan order").
type Plan struct {
	Actions []Action // [START, a1, ..., an, END]
}

// New builds a Plan from the grounded actions observed between START and
// END.
func New(actions []Action) Plan {
	out := make([]Action, 0, len(actions)+2)
	out = append(out, Start())
	out = append(out, actions...)
	out = append(out, End())
	return Plan{Actions: out}
}

// PlanOrder returns the ordered list of plan-action identifiers used to
// index timelines: START, a1.Id, ..., an.Id, END, QUERY.
func (p Plan) PlanOrder() []string {
	order := make([]string, 0, len(p.Actions)+1)
	for _, a := range p.Actions {
		order = append(order, a.Id)
	}
	order = append(order, QueryId)
	return order
}

// IndexOf returns the index of the plan action with the given id within
// p.Actions, or -1 if not found.
func (p Plan) IndexOf(id string) int {
	for i, a := range p.Actions {
		if a.Id == id {
			return i
		}
	}
	return -1
}

// ById returns the plan action with the given id.
func (p Plan) ById(id string) (Action, bool) {
	for _, a := range p.Actions {
		if a.Id == id {
			return a, true
		}
	}
	return Action{}, false
}

// GeneratePlanAutomaton builds the chain-shaped plan TA described in
// spec.md §4.3: one location per plan action (including START and END),
// a global plan clock cpa, edges state_i -> state_{i+1} guarded by
// cpa >= plan[i].Duration.L and resetting cpa, with the invariant on
// location i set to cpa <= plan[i].Duration.U. START is the initial
// location. Each transition's action label is the grounded next action's
// name, which the trace decoder recovers (spec.md §4.11).
func GeneratePlanAutomaton(p Plan, name string) *automaton.Automaton {
	out := automaton.New(name)
	cpa := ta.InternClock(name + "." + PlanClockName)

	for i, act := range p.Actions {
		inv := ta.True()
		if !act.Duration.IsUnbounded() {
			inv = ta.Atomic(cpa, ta.LE, act.Duration.U)
		}
		out.AddLocation(automaton.NewLocation(act.Id, inv, false, i == 0))
	}

	for i := 0; i+1 < len(p.Actions); i++ {
		cur := p.Actions[i]
		next := p.Actions[i+1]
		e := automaton.NewEdge(cur.Id, next.Id)
		e.Guard = ta.Atomic(cpa, ta.GE, cur.Duration.L)
		e.Reset = automaton.ResetSet(cpa)
		e.Action = next.Name.String()
		out.AddEdge(e)
	}

	return out
}

// String renders a plan action for diagnostics.
func (a Action) String() string {
	return fmt.Sprintf("%s: %s [dur %d..%d]", a.Id, a.Name, a.Duration.L, a.Duration.U)
}
