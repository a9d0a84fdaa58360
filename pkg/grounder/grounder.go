// Package grounder instantiates rules and axioms against a repository and
// the current fact set: given a rule's unground body and a candidate
// parameter binding, it substitutes every term, verifies every literal
// and numeric constraint the static consistency graph (package analysis,
// package clique) could not fully decide on its own, and produces a
// GroundRule or GroundAxiom ready for the evaluator to assert.
//
// Positive static literals whose terms are one or two distinct
// parameters are already enforced exactly by the consistency graph;
// everything else — fluent and derived literals (which change during
// evaluation and so can't be precomputed), negative literals of any
// arity, and static literals with no terms, a constant, a repeated
// parameter, or arity > 2 — is checked here as an exact post-filter
// against the live fact tables. This keeps
// the graph construction in package analysis simple while still
// guaranteeing the grounder only ever emits bindings that satisfy the
// complete body.
package grounder

import (
	"github.com/gokanplan/gokanplan/pkg/analysis"
	"github.com/gokanplan/gokanplan/pkg/clique"
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/intern"
	"github.com/gokanplan/gokanplan/pkg/repo"
)

// AtomFacts answers ground-atom identity and truth queries. *repo.GroundAtomTable
// satisfies it directly for pre-search grounding, where "known" and "true"
// coincide; the successor generator (package successor) supplies its own
// implementation that separates known-identity from per-state truth.
type AtomFacts interface {
	Find(pred intern.Index[entity.Predicate], binding entity.Binding) (entity.GroundAtomRef, bool)
	GetOrCreate(pred intern.Index[entity.Predicate], binding entity.Binding) (entity.GroundAtomRef, bool)
}

// FunctionFacts is AtomFacts' numeric-function-term counterpart.
type FunctionFacts interface {
	Find(fn intern.Index[entity.Function], binding entity.Binding) (entity.GroundFunctionTermRef, bool)
	GetOrCreate(fn intern.Index[entity.Function], binding entity.Binding) (entity.GroundFunctionTermRef, bool)
}

// Facts is the subset of per-predicate/per-function fact storage the
// grounder needs to read: ground-atom and ground-function-term identity
// and truth, plus a numeric-value lookup for evaluating constraints.
type Facts struct {
	Atoms     AtomFacts
	Functions FunctionFacts
	Values    func(entity.GroundFunctionTermRef) float64
}

// Context bundles everything grounding a single rule body needs: the
// repository the rule's entities were interned into, and the live fact
// tables to check against.
type Context struct {
	Repo  *repo.Repository
	Facts Facts
}

// substitute resolves a Term against a parameter binding: an object term
// resolves to itself, a parameter term resolves to binding[ParamIndex].
func substitute(t entity.Term, binding entity.Binding) intern.Index[entity.Object] {
	if t.IsParameter {
		return binding[t.ParamIndex]
	}
	return t.Object
}

func substituteTerms(terms []entity.Term, binding entity.Binding) entity.Binding {
	out := make(entity.Binding, len(terms))
	for i, t := range terms {
		out[i] = substitute(t, binding)
	}
	return out
}

// groundAtom substitutes an atom's terms under binding and returns the
// object binding a ground-atom lookup would use.
func (c *Context) groundAtom(atom entity.Atom, binding entity.Binding) entity.Binding {
	return substituteTerms(atom.Terms, binding)
}

// checkLiteral reports whether lit holds under binding by an exact lookup
// against the live fact tables, used for every literal the consistency
// graph did not already guarantee.
func (c *Context) checkLiteral(lit entity.Literal, binding entity.Binding) bool {
	atom := *c.Repo.Atoms.At(lit.Atom)
	args := c.groundAtom(atom, binding)
	_, found := c.Facts.Atoms.Find(atom.Predicate, args)
	return found == lit.Positive
}

func (c *Context) checkFunctionExpr(expr intern.Index[entity.FunctionExpr], binding entity.Binding) entity.GroundFunctionExpr {
	fe := *c.Repo.FunctionExprs.At(expr)
	switch fe.Kind {
	case entity.ExprConst:
		return entity.GroundFunctionExpr{Kind: entity.ExprConst, Const: fe.Const}
	case entity.ExprFunctionTerm:
		ft := *c.Repo.FunctionTerms.At(fe.FunctionTerm)
		args := substituteTerms(ft.Terms, binding)
		ref, _ := c.Facts.Functions.GetOrCreate(ft.Function, args)
		return entity.GroundFunctionExpr{Kind: entity.ExprFunctionTerm, FunctionTerm: ref}
	case entity.ExprArith:
		operands := make([]entity.GroundFunctionExpr, len(fe.Operands))
		for i, o := range fe.Operands {
			operands[i] = c.checkFunctionExpr(o, binding)
		}
		return entity.GroundFunctionExpr{Kind: entity.ExprArith, Op: fe.Op, Operands: operands}
	default:
		return entity.GroundFunctionExpr{}
	}
}

func (c *Context) checkNumericConstraint(nc entity.NumericConstraint, binding entity.Binding) bool {
	left := c.checkFunctionExpr(mustIndex(c.Repo, nc.Left), binding)
	right := c.checkFunctionExpr(mustIndex(c.Repo, nc.Right), binding)
	gc := entity.GroundNumericConstraint{Op: nc.Op, Left: left, Right: right}
	return gc.Eval(c.Facts.Values)
}

// mustIndex re-interns an already-canonical expression to recover its
// index; NumericConstraint stores FunctionExpr by value (not index)
// because constraints are small and rarely shared, unlike atoms.
func mustIndex(r *repo.Repository, e entity.FunctionExpr) intern.Index[entity.FunctionExpr] {
	idx, _ := r.FunctionExprs.GetOrCreate(e)
	return idx
}

// Verify reports whether every literal and numeric constraint of body
// holds under binding, re-checking the literals package analysis's
// consistency graph does not fully decide (fluent, derived, negative, and
// every static literal whose terms are not one or two distinct
// parameters) and every numeric constraint.
func (c *Context) Verify(body entity.ConjunctiveCondition, binding entity.Binding) bool {
	for _, lit := range body.FluentLiterals {
		if !c.checkLiteral(lit, binding) {
			return false
		}
	}
	for _, lit := range body.DerivedLiterals {
		if !c.checkLiteral(lit, binding) {
			return false
		}
	}
	for _, lit := range body.StaticLiterals {
		if !lit.Positive {
			if !c.checkLiteral(lit, binding) {
				return false
			}
			continue
		}
		atom := *c.Repo.Atoms.At(lit.Atom)
		decided := len(atom.Terms) >= 1 && len(atom.Terms) <= 2
		for i, t := range atom.Terms {
			if !t.IsParameter || (i == 1 && atom.Terms[0].ParamIndex == t.ParamIndex) {
				decided = false
			}
		}
		if !decided {
			if !c.checkLiteral(lit, binding) {
				return false
			}
		}
	}
	for _, nc := range body.NumericConstraints {
		if !c.checkNumericConstraint(nc, binding) {
			return false
		}
	}
	return true
}

// GroundBody substitutes binding into every fluent and derived literal and
// every numeric constraint of body, returning them as a
// GroundConjunctiveCondition. Static literals are omitted: a binding that
// reaches this point already satisfied every static literal of body (see
// Verify), and static facts never change during search, so a static
// literal's truth for this exact binding is fixed for the task's
// lifetime and need not be re-checked again. This is what the axiom
// evaluator (package axiom) re-evaluates per search node against a
// state's live fluent/derived bitsets, instead of re-running the full
// grounder per node.
func (c *Context) GroundBody(body entity.ConjunctiveCondition, binding entity.Binding) entity.GroundConjunctiveCondition {
	var lits []entity.GroundLiteral
	for _, lit := range body.FluentLiterals {
		lits = append(lits, c.groundLiteralRef(lit, binding))
	}
	for _, lit := range body.DerivedLiterals {
		lits = append(lits, c.groundLiteralRef(lit, binding))
	}
	var constraints []entity.GroundNumericConstraint
	for _, nc := range body.NumericConstraints {
		constraints = append(constraints, entity.GroundNumericConstraint{
			Op:    nc.Op,
			Left:  c.checkFunctionExpr(mustIndex(c.Repo, nc.Left), binding),
			Right: c.checkFunctionExpr(mustIndex(c.Repo, nc.Right), binding),
		})
	}
	return entity.GroundConjunctiveCondition{Literals: lits, NumericConstraints: constraints}
}

// Holds reports whether every literal and numeric constraint of body
// holds under binding, checking every literal exactly — including
// positive low-arity static literals, which Verify otherwise trusts the
// consistency graph to have already filtered. Used where no consistency
// graph has run at all, e.g. checking a 0-parameter goal condition
// directly against a state.
func (c *Context) Holds(body entity.ConjunctiveCondition, binding entity.Binding) bool {
	for _, lit := range body.StaticLiterals {
		if !c.checkLiteral(lit, binding) {
			return false
		}
	}
	for _, lit := range body.FluentLiterals {
		if !c.checkLiteral(lit, binding) {
			return false
		}
	}
	for _, lit := range body.DerivedLiterals {
		if !c.checkLiteral(lit, binding) {
			return false
		}
	}
	for _, nc := range body.NumericConstraints {
		if !c.checkNumericConstraint(nc, binding) {
			return false
		}
	}
	return true
}

// EvalExpr grounds the function expression at idx under binding and
// evaluates it against the live value table, used by the action executor
// to compute a numeric effect's right-hand side from a specific state.
func (c *Context) EvalExpr(idx intern.Index[entity.FunctionExpr], binding entity.Binding) float64 {
	return c.checkFunctionExpr(idx, binding).Eval(c.Facts.Values)
}

func (c *Context) groundLiteralRef(lit entity.Literal, binding entity.Binding) entity.GroundLiteral {
	atom := *c.Repo.Atoms.At(lit.Atom)
	args := c.groundAtom(atom, binding)
	ref, _ := c.Facts.Atoms.GetOrCreate(atom.Predicate, args)
	return entity.GroundLiteral{Positive: lit.Positive, Atom: ref}
}

// GroundRule enumerates every ground instance of rule, verifies each
// against the live fact tables, and calls emit once per surviving
// instance in the consistency graph's canonical order. emit returning
// false stops enumeration early.
func (c *Context) GroundRule(ruleIdx intern.Index[entity.Rule], g *analysis.ConsistencyGraph, allowed clique.AllowedFunc, emit func(entity.GroundRule) bool) {
	rule := *c.Repo.Rules.At(ruleIdx)
	body := *c.Repo.Conditions.At(rule.Body)
	clique.Enumerate(g, allowed, func(binding entity.Binding) bool {
		if !c.Verify(body, binding) {
			return true
		}
		headBinding := c.groundAtom(rule.Head, binding)
		return emit(entity.GroundRule{
			Binding: binding,
			Head:    entity.GroundAtomBinding{Binding: headBinding},
		})
	})
}

// GroundAxiom enumerates every ground instance of axiom the same way
// GroundRule does for rules.
func (c *Context) GroundAxiom(axiomIdx intern.Index[entity.Axiom], g *analysis.ConsistencyGraph, allowed clique.AllowedFunc, emit func(entity.GroundAxiom) bool) {
	axiom := *c.Repo.Axioms.At(axiomIdx)
	body := *c.Repo.Conditions.At(axiom.Body)
	clique.Enumerate(g, allowed, func(binding entity.Binding) bool {
		if !c.Verify(body, binding) {
			return true
		}
		headBinding := c.groundAtom(axiom.Head, binding)
		return emit(entity.GroundAxiom{
			Binding: binding,
			Head:    entity.GroundAtomBinding{Binding: headBinding},
		})
	})
}
