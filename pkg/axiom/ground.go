// Package axiom takes an unpacked state whose derived bitset may be
// empty or stale and runs the pre-ground axiom instances over their
// derived strata to fixpoint, writing every derived atom the state's
// fluent facts entail into the state's derived bitset.
//
// The expensive part — which parameter bindings are even consistent with
// a rule body — is done once, ahead of search, by package grounder; this
// package only re-checks each pre-ground instance's fluent/derived
// literals and numeric constraints against a specific state's bitset and
// numeric vector, which is cheap enough to redo at every search node.
package axiom

import (
	"fmt"

	"github.com/gokanplan/gokanplan/pkg/analysis"
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/grounder"
	"github.com/gokanplan/gokanplan/pkg/intern"
	"github.com/gokanplan/gokanplan/pkg/repo"
)

// Instance is one pre-ground axiom: a derived head atom and the
// fluent/derived literals and numeric constraints that must hold for it,
// with every static literal already discharged for good at grounding
// time.
type Instance struct {
	Head entity.GroundAtomRef
	Cond entity.GroundConjunctiveCondition
}

// Program is axiom evaluation's precomputed input: every pre-ground axiom
// instance of the task, partitioned into strata the same way package
// evaluator stratifies rules (a derived predicate may depend on a
// strictly lower stratum negatively, the same or a lower stratum
// positively).
type Program struct {
	Strata [][]Instance
}

// StratificationError mirrors evaluator.StratificationError for axioms: a
// derived predicate would need to precede itself under negation.
type StratificationError struct {
	Predicate intern.Index[entity.Predicate]
}

func (e *StratificationError) Error() string {
	return fmt.Sprintf("axiom predicate %d participates in a negative dependency cycle", uint32(e.Predicate))
}

// Ground grounds every axiom of the task against the full static graph
// and the complete reachable fluent/derived universe the pre-search
// evaluation pass discovered (see pkg/evaluator), then stratifies the
// resulting instances by head predicate.
func Ground(r *repo.Repository, task *repo.Task, objects []intern.Index[entity.Object]) (*Program, error) {
	gctx := &grounder.Context{Repo: r, Facts: grounder.Facts{Atoms: r.GroundAtoms, Functions: r.GroundFunctionTerms}}

	type built struct {
		headPred intern.Index[entity.Predicate]
		inst     Instance
	}
	var all []built
	edges := map[intern.Index[entity.Predicate]][]depEdge{}

	for _, axiomIdx := range task.Axioms {
		ax := *r.Axioms.At(axiomIdx)
		body := *r.Conditions.At(ax.Body)
		g := analysis.Build(r, r.GroundAtoms, body, len(ax.Parameters), objects)

		headPred := ax.Head.Predicate
		gctx.GroundAxiom(axiomIdx, g, nil, func(ga entity.GroundAxiom) bool {
			cond := gctx.GroundBody(body, ga.Binding)
			headArgs := make(entity.Binding, len(ax.Head.Terms))
			for i, t := range ax.Head.Terms {
				if t.IsParameter {
					headArgs[i] = ga.Binding[t.ParamIndex]
				} else {
					headArgs[i] = t.Object
				}
			}
			headRef, _ := r.GroundAtoms.GetOrCreate(headPred, headArgs)
			all = append(all, built{headPred: headPred, inst: Instance{Head: headRef, Cond: cond}})
			for _, lit := range cond.Literals {
				litPred := r.Predicates.At(lit.Atom.Predicate)
				if litPred.Kind == entity.Derived {
					edges[headPred] = append(edges[headPred], depEdge{from: lit.Atom.Predicate, neg: !lit.Positive})
				}
			}
			return true
		})
	}

	stratumOf := stratifyPredicates(edges)
	for pred, es := range edges {
		for _, e := range es {
			if e.neg && stratumOf[pred] <= stratumOf[e.from] {
				return nil, &StratificationError{Predicate: pred}
			}
		}
	}

	maxStratum := 0
	for _, s := range stratumOf {
		if s > maxStratum {
			maxStratum = s
		}
	}
	strata := make([][]Instance, maxStratum+1)
	for _, b := range all {
		s := stratumOf[b.headPred]
		strata[s] = append(strata[s], b.inst)
	}
	return &Program{Strata: strata}, nil
}

type depEdge struct {
	from intern.Index[entity.Predicate]
	neg  bool
}

func stratifyPredicates(edges map[intern.Index[entity.Predicate]][]depEdge) map[intern.Index[entity.Predicate]]int {
	stratumOf := make(map[intern.Index[entity.Predicate]]int)
	for pred, es := range edges {
		if _, ok := stratumOf[pred]; !ok {
			stratumOf[pred] = 0
		}
		for _, e := range es {
			if _, ok := stratumOf[e.from]; !ok {
				stratumOf[e.from] = 0
			}
		}
	}
	changed := true
	for iter := 0; changed; iter++ {
		if iter > len(stratumOf)+len(edges)+1 {
			break
		}
		changed = false
		for pred, es := range edges {
			for _, e := range es {
				need := stratumOf[e.from]
				if e.neg {
					need++
				}
				if stratumOf[pred] < need {
					stratumOf[pred] = need
					changed = true
				}
			}
		}
	}
	return stratumOf
}
