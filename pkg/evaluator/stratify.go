// Package evaluator computes the stratified bottom-up fixpoint of a
// program's rule set: the derived predicates whose rules may reference
// each other positively, but never through a negation cycle, grounded
// one stratum at a time until no stratum produces a new fact.
package evaluator

import (
	"fmt"

	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/intern"
	"github.com/gokanplan/gokanplan/pkg/repo"
)

// StratificationError reports a negation cycle: some derived predicate
// transitively depends negatively on itself, which has no well-founded
// stratified evaluation.
type StratificationError struct {
	Predicate intern.Index[entity.Predicate]
}

func (e *StratificationError) Error() string {
	return fmt.Sprintf("predicate %d participates in a negative dependency cycle", uint32(e.Predicate))
}

// edge is a dependency from a body predicate to a head predicate: Neg
// means the body literal referencing From is negative, which forces
// Stratum[To] > Stratum[From] rather than merely >=.
type edge struct {
	From, To intern.Index[entity.Predicate]
	Neg      bool
}

// Stratify partitions program's rules into strata: rules in stratum k may
// only read derived predicates from strata <= k positively and < k
// negatively. Within a stratum, rules are returned sorted by their
// repository index for deterministic iteration order.
func Stratify(r *repo.Repository, program *repo.Program) ([][]intern.Index[entity.Rule], error) {
	headPred := make(map[intern.Index[entity.Rule]]intern.Index[entity.Predicate])
	var edges []edge

	for _, ruleIdx := range program.Rules {
		rule := *r.Rules.At(ruleIdx)
		headPredIdx := rule.Head.Predicate
		headPred[ruleIdx] = headPredIdx
		body := *r.Conditions.At(rule.Body)
		for _, lit := range body.DerivedLiterals {
			atom := *r.Atoms.At(lit.Atom)
			edges = append(edges, edge{From: atom.Predicate, To: headPredIdx, Neg: !lit.Positive})
		}
	}

	stratumOf := make(map[intern.Index[entity.Predicate]]int)
	for _, p := range program.FluentPredicates {
		stratumOf[p] = 0
	}
	for _, p := range program.StaticPredicates {
		stratumOf[p] = 0
	}
	for _, p := range derivedPredicatesOf(headPred) {
		if _, ok := stratumOf[p]; !ok {
			stratumOf[p] = 0
		}
	}

	changed := true
	for iter := 0; changed; iter++ {
		if iter > len(stratumOf)+len(edges)+1 {
			return nil, &StratificationError{}
		}
		changed = false
		for _, e := range edges {
			need := stratumOf[e.From]
			if e.Neg {
				need++
			}
			if stratumOf[e.To] < need {
				stratumOf[e.To] = need
				changed = true
			}
		}
	}

	for _, e := range edges {
		if e.Neg && stratumOf[e.To] <= stratumOf[e.From] {
			return nil, &StratificationError{Predicate: e.To}
		}
	}

	maxStratum := 0
	for _, s := range stratumOf {
		if s > maxStratum {
			maxStratum = s
		}
	}

	strata := make([][]intern.Index[entity.Rule], maxStratum+1)
	for _, ruleIdx := range program.Rules {
		s := stratumOf[headPred[ruleIdx]]
		strata[s] = append(strata[s], ruleIdx)
	}
	for i := range strata {
		sortRules(strata[i])
	}
	return strata, nil
}

func derivedPredicatesOf(headPred map[intern.Index[entity.Rule]]intern.Index[entity.Predicate]) []intern.Index[entity.Predicate] {
	seen := make(map[intern.Index[entity.Predicate]]struct{})
	var out []intern.Index[entity.Predicate]
	for _, p := range headPred {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func sortRules(rules []intern.Index[entity.Rule]) {
	for i := 1; i < len(rules); i++ {
		for j := i; j > 0 && rules[j] < rules[j-1]; j-- {
			rules[j], rules[j-1] = rules[j-1], rules[j]
		}
	}
}
