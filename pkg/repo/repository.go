package repo

import (
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/intern"
)

// Repository bundles one intern.Repository per entity kind. A base
// Repository (NewRepository) is used for the shared domain; an overlay
// Repository (NewOverlayRepository) extends a parent's content with
// task-local or worker-local additions without renumbering anything the
// parent already assigned.
type Repository struct {
	Objects             intern.Repository[entity.Object]
	Variables           intern.Repository[entity.Variable]
	Predicates          intern.Repository[entity.Predicate]
	Functions           intern.Repository[entity.Function]
	Literals            intern.Repository[entity.Literal]
	Atoms               intern.Repository[entity.Atom]
	FunctionTerms       intern.Repository[entity.FunctionTerm]
	FunctionExprs       intern.Repository[entity.FunctionExpr]
	Conditions          intern.Repository[entity.ConjunctiveCondition]
	Rules               intern.Repository[entity.Rule]
	Actions             intern.Repository[entity.Action]
	Axioms              intern.Repository[entity.Axiom]
	GroundAtoms         *GroundAtomTable
	GroundFunctionTerms *GroundFunctionTermTable
}

// NewRepository creates an empty base repository.
func NewRepository() *Repository {
	return &Repository{
		Objects:             intern.NewStore[entity.Object](),
		Variables:           intern.NewStore[entity.Variable](),
		Predicates:          intern.NewStore[entity.Predicate](),
		Functions:           intern.NewStore[entity.Function](),
		Literals:            intern.NewStore[entity.Literal](),
		Atoms:               intern.NewStore[entity.Atom](),
		FunctionTerms:       intern.NewStore[entity.FunctionTerm](),
		FunctionExprs:       intern.NewStore[entity.FunctionExpr](),
		Conditions:          intern.NewStore[entity.ConjunctiveCondition](),
		Rules:               intern.NewStore[entity.Rule](),
		Actions:             intern.NewStore[entity.Action](),
		Axioms:              intern.NewStore[entity.Axiom](),
		GroundAtoms:         NewGroundAtomTable(),
		GroundFunctionTerms: NewGroundFunctionTermTable(),
	}
}

// NewOverlayRepository creates a repository that extends parent: every
// kind's index space is partitioned at parent's current size for that
// kind, per intern.Overlay's contract.
func NewOverlayRepository(parent *Repository) *Repository {
	return &Repository{
		Objects:             intern.NewOverlay[entity.Object](parent.Objects),
		Variables:           intern.NewOverlay[entity.Variable](parent.Variables),
		Predicates:          intern.NewOverlay[entity.Predicate](parent.Predicates),
		Functions:           intern.NewOverlay[entity.Function](parent.Functions),
		Literals:            intern.NewOverlay[entity.Literal](parent.Literals),
		Atoms:               intern.NewOverlay[entity.Atom](parent.Atoms),
		FunctionTerms:       intern.NewOverlay[entity.FunctionTerm](parent.FunctionTerms),
		FunctionExprs:       intern.NewOverlay[entity.FunctionExpr](parent.FunctionExprs),
		Conditions:          intern.NewOverlay[entity.ConjunctiveCondition](parent.Conditions),
		Rules:               intern.NewOverlay[entity.Rule](parent.Rules),
		Actions:             intern.NewOverlay[entity.Action](parent.Actions),
		Axioms:              intern.NewOverlay[entity.Axiom](parent.Axioms),
		GroundAtoms:         NewOverlayGroundAtomTable(parent.GroundAtoms),
		GroundFunctionTerms: NewOverlayGroundFunctionTermTable(parent.GroundFunctionTerms),
	}
}

// Object interns a named constant and returns its index.
func (r *Repository) Object(name string) intern.Index[entity.Object] {
	idx, _ := r.Objects.GetOrCreate(entity.Object{Name: name})
	return idx
}

// Variable interns a named placeholder and returns its index.
func (r *Repository) Variable(name string) intern.Index[entity.Variable] {
	idx, _ := r.Variables.GetOrCreate(entity.Variable{Name: name})
	return idx
}

// Predicate interns a (name, arity, kind) predicate and returns its index.
func (r *Repository) Predicate(name string, arity int, kind entity.FactKind) intern.Index[entity.Predicate] {
	idx, _ := r.Predicates.GetOrCreate(entity.Predicate{Name: name, Arity: arity, Kind: kind})
	return idx
}

// Function interns a (name, arity, kind) numeric function and returns its
// index.
func (r *Repository) Function(name string, arity int, kind entity.FactKind) intern.Index[entity.Function] {
	idx, _ := r.Functions.GetOrCreate(entity.Function{Name: name, Arity: arity, Kind: kind})
	return idx
}

// Atom interns an atom over pred with the given terms and returns its
// index.
func (r *Repository) Atom(pred intern.Index[entity.Predicate], terms []entity.Term, kind entity.FactKind) intern.Index[entity.Atom] {
	idx, _ := r.Atoms.GetOrCreate(entity.Atom{Predicate: pred, Terms: terms, Kind: kind})
	return idx
}

// Literal interns (positive, atom) and returns its index.
func (r *Repository) Literal(positive bool, atom intern.Index[entity.Atom]) intern.Index[entity.Literal] {
	idx, _ := r.Literals.GetOrCreate(entity.Literal{Positive: positive, Atom: atom})
	return idx
}

// FunctionTerm interns a function term over fn with the given terms.
func (r *Repository) FunctionTerm(fn intern.Index[entity.Function], terms []entity.Term, kind entity.FactKind) intern.Index[entity.FunctionTerm] {
	idx, _ := r.FunctionTerms.GetOrCreate(entity.FunctionTerm{Function: fn, Terms: terms, Kind: kind})
	return idx
}

// ConstExpr interns a constant numeric expression.
func (r *Repository) ConstExpr(v float64) intern.Index[entity.FunctionExpr] {
	idx, _ := r.FunctionExprs.GetOrCreate(entity.FunctionExpr{Kind: entity.ExprConst, Const: v})
	return idx
}

// FunctionTermExpr interns an expression that reads a function term's
// value.
func (r *Repository) FunctionTermExpr(ft intern.Index[entity.FunctionTerm]) intern.Index[entity.FunctionExpr] {
	idx, _ := r.FunctionExprs.GetOrCreate(entity.FunctionExpr{Kind: entity.ExprFunctionTerm, FunctionTerm: ft})
	return idx
}

// ArithExpr interns an arithmetic expression over the given operand
// expression indices.
func (r *Repository) ArithExpr(op entity.ArithOp, operands ...intern.Index[entity.FunctionExpr]) intern.Index[entity.FunctionExpr] {
	idx, _ := r.FunctionExprs.GetOrCreate(entity.FunctionExpr{Kind: entity.ExprArith, Op: op, Operands: operands})
	return idx
}

// Condition canonicalises and interns a conjunctive condition.
func (r *Repository) Condition(cc entity.ConjunctiveCondition) intern.Index[entity.ConjunctiveCondition] {
	idx, _ := r.Conditions.GetOrCreate(cc.Canonicalise())
	return idx
}

// Rule interns a rule and returns its index.
func (r *Repository) Rule(rule entity.Rule) intern.Index[entity.Rule] {
	idx, _ := r.Rules.GetOrCreate(rule)
	return idx
}

// Action interns an action and returns its index.
func (r *Repository) Action(a entity.Action) intern.Index[entity.Action] {
	idx, _ := r.Actions.GetOrCreate(a)
	return idx
}

// Axiom interns an axiom and returns its index.
func (r *Repository) Axiom(a entity.Axiom) intern.Index[entity.Axiom] {
	idx, _ := r.Axioms.GetOrCreate(a)
	return idx
}
