package axiom

import (
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/state"
)

// StaticValues resolves a ground function term's value when it is not a
// fluent term — static function values never change during search, so
// the axiom evaluator reads them through this lookup rather than decoding
// them from a state.
type StaticValues func(entity.GroundFunctionTermRef) float64

// Evaluate runs prog's strata to fixpoint over u, setting every derived
// atom the current fluent bits (and any already-settled lower-stratum
// derived atoms) entail. idx supplies the dense ids prog's instances were
// built against; statics supplies values for function terms Evaluate
// cannot resolve from u directly.
func Evaluate(u *state.Unpacked, prog *Program, idx *state.Indexer, statics StaticValues) {
	lookupAtom := func(ref entity.GroundAtomRef) bool {
		// Literals here are always fluent or derived (Ground strips
		// static ones); distinguish by checking the fluent universe
		// first, since a predicate is never both.
		if id, ok := idx.TryFluentID(ref); ok {
			return u.Fluent.Test(id)
		}
		id := idx.DerivedID(ref)
		return u.Derived.Test(id)
	}
	lookupValue := func(ref entity.GroundFunctionTermRef) float64 {
		if id, ok := idx.TryFluentTermID(ref); ok {
			return u.Numeric[id]
		}
		return statics(ref)
	}

	for _, stratum := range prog.Strata {
		for {
			changed := false
			for _, inst := range stratum {
				if u.Derived.Test(idx.DerivedID(inst.Head)) {
					continue
				}
				if holds(inst.Cond, lookupAtom, lookupValue) {
					u.Derived.Set(idx.DerivedID(inst.Head))
					changed = true
				}
			}
			if !changed {
				break
			}
		}
	}
}

func holds(cond entity.GroundConjunctiveCondition, atom func(entity.GroundAtomRef) bool, value func(entity.GroundFunctionTermRef) float64) bool {
	for _, lit := range cond.Literals {
		if atom(lit.Atom) != lit.Positive {
			return false
		}
	}
	for _, nc := range cond.NumericConstraints {
		if !nc.Eval(value) {
			return false
		}
	}
	return true
}
