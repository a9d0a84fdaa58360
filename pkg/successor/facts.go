// Package successor finds every ground action applicable in a search
// node's state and expands it into the successor node the action
// executor (package executor) produces, by re-running the rule grounder
// (package grounder) of each action's precondition against a live view
// of the node's state.
package successor

import (
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/grounder"
	"github.com/gokanplan/gokanplan/pkg/intern"
	"github.com/gokanplan/gokanplan/pkg/repo"
	"github.com/gokanplan/gokanplan/pkg/state"
)

// StateView answers ground-atom and ground-function-term queries against
// one specific unpacked state rather than a single global truth, which is
// what lets the grounder's body-verification logic (package grounder) be
// reused unchanged for both pre-search reachability grounding and
// per-node successor generation: identity (is this binding a known
// ground atom at all) comes from the task's repository, truth comes from
// the state's bitsets.
type StateView struct {
	Repo    *repo.Repository
	Indexer *state.Indexer
	State   *state.Unpacked
}

var _ grounder.AtomFacts = (*StateView)(nil)
var _ grounder.FunctionFacts = functionFacts{}

// Find reports whether pred(binding) is both a known ground atom and
// currently true in the underlying state. Static atoms are true whenever
// they are known, since the static table only ever holds true facts.
func (v *StateView) Find(pred intern.Index[entity.Predicate], binding entity.Binding) (entity.GroundAtomRef, bool) {
	ref, known := v.Repo.GroundAtoms.Find(pred, binding)
	if !known {
		return ref, false
	}
	switch v.Repo.Predicates.At(pred).Kind {
	case entity.Static:
		return ref, true
	case entity.Fluent:
		id, ok := v.Indexer.TryFluentID(ref)
		return ref, ok && v.State.Fluent.Test(id)
	case entity.Derived:
		id, ok := v.Indexer.TryDerivedID(ref)
		return ref, ok && v.State.Derived.Test(id)
	default:
		return ref, false
	}
}

// GetOrCreate only resolves identity: it delegates to the repository's
// table, interning the atom there if it is new, and never toggles truth.
func (v *StateView) GetOrCreate(pred intern.Index[entity.Predicate], binding entity.Binding) (entity.GroundAtomRef, bool) {
	return v.Repo.GroundAtoms.GetOrCreate(pred, binding)
}

// FindFunc looks up a ground function term's identity in the
// repository's table without inserting; values are resolved by Value.
func (v *StateView) FindFunc(fn intern.Index[entity.Function], binding entity.Binding) (entity.GroundFunctionTermRef, bool) {
	return v.Repo.GroundFunctionTerms.Find(fn, binding)
}

func (v *StateView) GetOrCreateFunc(fn intern.Index[entity.Function], binding entity.Binding) (entity.GroundFunctionTermRef, bool) {
	return v.Repo.GroundFunctionTerms.GetOrCreate(fn, binding)
}

// functionFacts adapts StateView's Find/GetOrCreateFunc-shaped methods to
// grounder.FunctionFacts, whose method names (Find/GetOrCreate) collide
// with StateView's atom-facing methods of the same name.
type functionFacts struct{ v *StateView }

func (f functionFacts) Find(fn intern.Index[entity.Function], binding entity.Binding) (entity.GroundFunctionTermRef, bool) {
	return f.v.FindFunc(fn, binding)
}

func (f functionFacts) GetOrCreate(fn intern.Index[entity.Function], binding entity.Binding) (entity.GroundFunctionTermRef, bool) {
	return f.v.GetOrCreateFunc(fn, binding)
}

// Value resolves a ground function term to its current numeric value:
// fluent terms read the state's numeric vector, everything else is
// resolved by statics.
func (v *StateView) Value(statics func(entity.GroundFunctionTermRef) float64) func(entity.GroundFunctionTermRef) float64 {
	return func(ref entity.GroundFunctionTermRef) float64 {
		if id, ok := v.Indexer.TryFluentTermID(ref); ok {
			return v.State.Numeric[id]
		}
		return statics(ref)
	}
}

// Facts builds the grounder.Facts view of v, ready to pass to
// grounder.Context for precondition/effect-condition checking against
// this exact state.
func (v *StateView) Facts(statics func(entity.GroundFunctionTermRef) float64) grounder.Facts {
	return grounder.Facts{
		Atoms:     v,
		Functions: functionFacts{v: v},
		Values:    v.Value(statics),
	}
}
