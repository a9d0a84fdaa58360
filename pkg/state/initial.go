package state

import (
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/pool"
	"github.com/gokanplan/gokanplan/pkg/repo"
)

// InitialState builds the unpacked initial state of task: every fluent
// atom and fluent function value task.InitialAtoms/InitialFunctionValues
// names is set, the derived bitset is left empty for the axiom evaluator
// to close, and the returned Unpacked is already registered in sr.
func InitialState(r *repo.Repository, task *repo.Task, idx *Indexer, sr *Repository) (StateIndex, pool.Ptr[Unpacked]) {
	h := sr.Acquire()
	u := h.Get()

	for _, ref := range task.InitialAtoms {
		pred := r.Predicates.At(ref.Predicate)
		if pred.Kind != entity.Fluent {
			continue
		}
		u.Fluent.Set(idx.FluentID(ref))
	}
	for _, fv := range task.InitialFunctionValues {
		if fv.Kind != entity.Fluent {
			continue
		}
		u.Numeric[idx.FluentTermID(fv.Term)] = fv.Value
	}

	return sr.Register(u), h
}
