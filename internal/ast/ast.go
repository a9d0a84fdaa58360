// Package ast defines the tagged-literal AST shape the domain/problem
// ingestor (internal/ingest) consumes. Parsing a surface syntax (PDDL or
// otherwise) into this shape is out of scope; callers build it directly,
// the way a real front end would after its own parse pass.
package ast

import "github.com/gokanplan/gokanplan/pkg/entity"

// Term is either a reference to a named parameter in the enclosing
// declaration's parameter list, or a bound constant object name.
type Term struct {
	IsParam bool
	Name    string
}

// Param builds a parameter-reference term.
func Param(name string) Term { return Term{IsParam: true, Name: name} }

// Const builds a constant-object term.
func Const(name string) Term { return Term{Name: name} }

// Literal is a polarity, a predicate name, and its argument terms.
type Literal struct {
	Positive  bool
	Predicate string
	Args      []Term
}

// Expr is a numeric expression: a float constant, a function-term
// application, or an arithmetic operator over sub-expressions.
type Expr struct {
	Kind     entity.FunctionExprKind
	Const    float64
	Op       entity.ArithOp
	Operands []Expr
	Function string
	Args     []Term
}

// NumericConstraint compares two expressions.
type NumericConstraint struct {
	Op    entity.CompareOp
	Left  Expr
	Right Expr
}

// Condition is a conjunction of literals and numeric constraints. Negated
// preconditions are expressed as Literal{Positive: false, ...}; the
// ingestor rejects a Condition nested inside another quantified structure
// since this AST has no nested-quantifier shape to express one in the
// first place.
type Condition struct {
	Literals []Literal
	Numeric  []NumericConstraint
}

// NumericEffectDecl assigns an expression's value to a function term.
type NumericEffectDecl struct {
	Function string
	Args     []Term
	Value    Expr
}

// ConditionalEffect is one of an action's conditionally-applied effects.
// ExtraVariables are universally quantified over the task's objects at
// execution time, additional to the action's own parameters: the effect
// applies once for every combination whose condition holds.
type ConditionalEffect struct {
	ExtraVariables  []string
	Condition       Condition
	Add             []Literal
	Delete          []Literal
	NumericEffects  []NumericEffectDecl
	AuxiliaryEffect *NumericEffectDecl
}

// ActionDecl declares one parameterised action.
type ActionDecl struct {
	Name         string
	Parameters   []string
	Precondition Condition
	Effects      []ConditionalEffect
}

// AxiomDecl declares one derived-predicate rule: Head's Args must all be
// parameter terms drawn from Parameters.
type AxiomDecl struct {
	Parameters []string
	Body       Condition
	Head       Literal
}

// PredicateDecl declares a predicate symbol's name, arity, and fact kind.
type PredicateDecl struct {
	Name  string
	Arity int
	Kind  entity.FactKind
}

// FunctionDecl declares a numeric function symbol.
type FunctionDecl struct {
	Name  string
	Arity int
	Kind  entity.FactKind
}

// Domain is the task-independent half of a planning problem: predicate
// and function declarations plus the actions and axioms defined over
// them.
type Domain struct {
	Name       string
	Predicates []PredicateDecl
	Functions  []FunctionDecl
	Actions    []ActionDecl
	Axioms     []AxiomDecl
}

// FunctionValue is one entry of a problem's initial numeric-function
// assignment.
type FunctionValue struct {
	Function string
	Args     []Term
	Value    float64
}

// Metric declares the optional optimisation objective: minimize
// Expression's value in the final state.
type Metric struct {
	Expression Expr
}

// Problem is the task-specific half: the domain it extends, the objects
// in scope, the initial literals and function values, the goal
// condition, and an optional metric.
type Problem struct {
	Domain          *Domain
	Objects         []string
	InitialLiterals []Literal
	InitialValues   []FunctionValue
	Goal            Condition
	Metric          *Metric
}
