// Package executor implements applicability testing and effect
// application for a single ground action against a specific state,
// producing the successor state via the state repository (package
// state) and closing it under derived rules via the axiom evaluator
// (package axiom).
package executor

import (
	"github.com/gokanplan/gokanplan/pkg/axiom"
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/grounder"
	"github.com/gokanplan/gokanplan/pkg/intern"
	"github.com/gokanplan/gokanplan/pkg/pool"
	"github.com/gokanplan/gokanplan/pkg/repo"
	"github.com/gokanplan/gokanplan/pkg/state"
	"github.com/gokanplan/gokanplan/pkg/successor"
)

// Context bundles the repository, dense-id indexer, state repository,
// axiom program, and static-value lookup an action application needs.
// One Context is built per task and reused across every node the search
// expands.
type Context struct {
	Repo    *repo.Repository
	Task    *repo.Task
	Indexer *state.Indexer
	States  *state.Repository
	Axioms  *axiom.Program
	Statics func(entity.GroundFunctionTermRef) float64
}

// IsApplicable reports whether ga's precondition holds in the state
// view's current state.
func (c *Context) IsApplicable(ga entity.GroundAction, view *successor.StateView) bool {
	action := *c.Repo.Actions.At(ga.Action)
	body := *c.Repo.Conditions.At(action.Precondition)
	gctx := &grounder.Context{Repo: c.Repo, Facts: view.Facts(c.Statics)}
	return gctx.Verify(body, ga.Binding)
}

// Apply applies ga to the state view's current state: it copies the
// state into a fresh scratch state, applies every conditional effect
// whose condition holds (collecting deletes and adds across all
// qualifying effects before applying any of them, so an (add, delete)
// pair on the same atom keeps the add), assigns numeric effects computed
// from the pre-effect state, closes the result under derived rules, and
// registers it. It returns the new state's StateIndex, a handle to its
// unpacked form, and the new running auxiliary (cost-accumulator) value.
func (c *Context) Apply(ga entity.GroundAction, view *successor.StateView) (state.StateIndex, pool.Ptr[state.Unpacked], float64) {
	h := c.States.Acquire()
	next := h.Get()
	next.Fluent.CopyFrom(view.State.Fluent)
	next.Derived.Reset()
	copy(next.Numeric, view.State.Numeric)
	next.Auxiliary = view.State.Auxiliary

	action := *c.Repo.Actions.At(ga.Action)
	gctx := &grounder.Context{Repo: c.Repo, Facts: view.Facts(c.Statics)}

	var deletes, adds []entity.GroundAtomRef
	var numericTargets []entity.GroundFunctionTermRef
	var numericValues []float64
	auxValue := next.Auxiliary
	auxSet := false

	for _, eff := range action.Effects {
		forEachExtraBinding(c.Task.Objects, len(eff.ExtraVariables), ga.Binding, func(full entity.Binding) {
			cond := *c.Repo.Conditions.At(eff.Condition)
			if !gctx.Holds(cond, full) {
				return
			}
			for _, lit := range eff.DeleteLiterals {
				deletes = append(deletes, groundAtomRef(c.Repo, lit.Atom, full))
			}
			for _, lit := range eff.AddLiterals {
				adds = append(adds, groundAtomRef(c.Repo, lit.Atom, full))
			}
			for _, ne := range eff.NumericEffects {
				target := *c.Repo.FunctionTerms.At(ne.Target)
				args := substituteAll(target.Terms, full)
				ref, _ := c.Repo.GroundFunctionTerms.GetOrCreate(target.Function, args)
				value := gctx.EvalExpr(ne.Value, full)
				numericTargets = append(numericTargets, ref)
				numericValues = append(numericValues, value)
			}
			if eff.AuxiliaryEffect != nil {
				auxValue = gctx.EvalExpr(eff.AuxiliaryEffect.Value, full)
				auxSet = true
			}
		})
	}

	for _, ref := range deletes {
		next.Fluent.Clear(c.Indexer.FluentID(ref))
	}
	for _, ref := range adds {
		next.Fluent.Set(c.Indexer.FluentID(ref))
	}
	for i, ref := range numericTargets {
		next.Numeric[c.Indexer.FluentTermID(ref)] = numericValues[i]
	}
	if auxSet {
		next.Auxiliary = auxValue
	}

	axiom.Evaluate(next, c.Axioms, c.Indexer, c.Statics)
	idx := c.States.Register(next)
	return idx, h, next.Auxiliary
}

func groundAtomRef(r *repo.Repository, atomIdx intern.Index[entity.Atom], binding entity.Binding) entity.GroundAtomRef {
	atom := *r.Atoms.At(atomIdx)
	args := substituteAll(atom.Terms, binding)
	ref, _ := r.GroundAtoms.GetOrCreate(atom.Predicate, args)
	return ref
}

func substituteAll(terms []entity.Term, binding entity.Binding) entity.Binding {
	out := make(entity.Binding, len(terms))
	for i, t := range terms {
		if t.IsParameter {
			out[i] = binding[t.ParamIndex]
		} else {
			out[i] = t.Object
		}
	}
	return out
}

// forEachExtraBinding calls fn once per combination of objects assignable
// to a conditional effect's extra (universally quantified) variables,
// each time with base extended by that combination. Effects rarely
// introduce more than one or two extra variables, so a plain product
// enumeration (rather than a consistency-graph-pruned search) keeps this
// simple without a measurable cost in practice.
func forEachExtraBinding(objects []intern.Index[entity.Object], numExtra int, base entity.Binding, fn func(entity.Binding)) {
	if numExtra == 0 {
		fn(base)
		return
	}
	full := make(entity.Binding, len(base)+numExtra)
	copy(full, base)
	var rec func(i int)
	rec = func(i int) {
		if i == numExtra {
			fn(full)
			return
		}
		for _, obj := range objects {
			full[len(base)+i] = obj
			rec(i + 1)
		}
	}
	rec(0)
}
