package repo

import (
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/intern"
)

// Domain is the shared, task-independent half of an ingested planning
// problem: a base Repository plus the predicates, functions, actions,
// and axioms declared by the domain file. Ingestion produces exactly
// this pair: (DomainPtr, Repository).
type Domain struct {
	Repo       *Repository
	Name       string
	Predicates []intern.Index[entity.Predicate]
	Functions  []intern.Index[entity.Function]
	Actions    []intern.Index[entity.Action]
	Axioms     []intern.Index[entity.Axiom]
}

// Program is the snapshot the rule evaluator (package evaluator)
// consumes: the objects in scope, which predicates are static vs.
// fluent, which functions are fluent, and the rule set to iterate to
// fixpoint. It is derived from a Task, not stored as a standalone entity
// kind, since it is a view over the task's repository rather than
// something separately interned.
type Program struct {
	Repo             *Repository
	Objects          []intern.Index[entity.Object]
	StaticPredicates []intern.Index[entity.Predicate]
	FluentPredicates []intern.Index[entity.Predicate]
	FluentFunctions  []intern.Index[entity.Function]
	Rules            []intern.Index[entity.Rule]
}

// Metric is the optional optimisation metric: minimize the given function
// expression (e.g. total-cost), evaluated over the final state's ground
// function term values. A nil Metric means "minimize plan length",
// i.e. unit action cost.
type Metric struct {
	Expression intern.Index[entity.FunctionExpr]
}

// Task is (domain, objects, initial atoms, initial function values, goal
// condition, metric, axioms, actions): the task-specific half of an
// ingested planning problem, whose Repo overlays Domain.Repo.
type Task struct {
	Domain                *Domain
	Repo                  *Repository
	Objects               []intern.Index[entity.Object]
	InitialAtoms          []entity.GroundAtomRef
	InitialFunctionValues []entity.GroundFunctionTermValue
	Goal                  intern.Index[entity.ConjunctiveCondition]
	Metric                *Metric
	Axioms                []intern.Index[entity.Axiom]
	Actions               []intern.Index[entity.Action]
}

// Program builds the rule-evaluator-facing Program view of this task:
// every static and fluent predicate/function the repository knows about,
// and exactly the rules passed in. Axioms are not added as rules here or
// in package evaluator; package axiom grounds and evaluates them
// separately.
func (t *Task) ToProgram(rules []intern.Index[entity.Rule]) *Program {
	var staticPreds, fluentPreds []intern.Index[entity.Predicate]
	all := t.Repo.Predicates.All()
	for i, p := range all {
		idx := intern.Index[entity.Predicate](i)
		switch p.Kind {
		case entity.Static:
			staticPreds = append(staticPreds, idx)
		case entity.Fluent:
			fluentPreds = append(fluentPreds, idx)
		}
	}
	var fluentFuncs []intern.Index[entity.Function]
	for i, f := range t.Repo.Functions.All() {
		if f.Kind == entity.Fluent {
			fluentFuncs = append(fluentFuncs, intern.Index[entity.Function](i))
		}
	}
	return &Program{
		Repo:             t.Repo,
		Objects:          t.Objects,
		StaticPredicates: staticPreds,
		FluentPredicates: fluentPreds,
		FluentFunctions:  fluentFuncs,
		Rules:            rules,
	}
}
