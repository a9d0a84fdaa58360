package entity

import (
	"fmt"

	"github.com/gokanplan/gokanplan/pkg/intern"
)

// NumericEffect assigns the value of a function expression to a function
// term, e.g. (increase (total-cost) 1) or (assign (fuel ?r) (- (fuel ?r)
// 10)).
type NumericEffect struct {
	Target intern.Index[FunctionTerm]
	Value  intern.Index[FunctionExpr]
}

// GroundNumericEffect is the ground counterpart applied by the action
// executor.
type GroundNumericEffect struct {
	Target GroundFunctionTermRef
	Value  GroundFunctionExpr
}

// ConditionalEffect is one conditionally-applied effect of an action:
// extra locally-quantified variables, a condition, and the add/delete
// literals and numeric effects to apply when that condition holds. An
// optional auxiliary effect replaces the running cost value rather than
// adding to a fluent/derived predicate.
type ConditionalEffect struct {
	ExtraVariables   []Variable
	Condition        intern.Index[ConjunctiveCondition]
	AddLiterals      []Literal
	DeleteLiterals   []Literal
	NumericEffects   []NumericEffect
	AuxiliaryEffect  *NumericEffect
}

// Action is (name, parameters, precondition, conditional effects). Name
// is the action's identifying member: two distinct Action values in the
// same repository are never created with the same name.
type Action struct {
	Name          string
	Parameters    []Variable
	Precondition  intern.Index[ConjunctiveCondition]
	Effects       []ConditionalEffect
}

func (a Action) Key() string { return "action:" + a.Name }

func (a Action) Arity() int { return len(a.Parameters) }

func (a Action) String() string { return fmt.Sprintf("%s/%d", a.Name, len(a.Parameters)) }

// GroundAction is a fully-bound action instance: the action's index plus
// the binding of parameter objects. GroundActions are produced by the
// successor generator (package successor) and consumed by the action
// executor (package executor).
type GroundAction struct {
	Action  intern.Index[Action]
	Binding Binding
}

func (g GroundAction) Key() string {
	return fmt.Sprintf("gaction:%d|%s", uint32(g.Action), g.Binding.key())
}
