// Package ingest validates an internal/ast Domain/Problem tree and
// interns it into a repository (package repo), producing a repo.Domain
// and, per problem, a repo.Task whose repository overlays the domain's.
package ingest

import (
	"errors"
	"fmt"

	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/intern"
	"github.com/gokanplan/gokanplan/pkg/repo"

	"github.com/gokanplan/gokanplan/internal/ast"
)

// Construction-time error kinds, surfaced to the caller before search
// ever starts.
var (
	ErrDuplicatePredicate = errors.New("ingest: duplicate predicate")
	ErrDuplicateFunction  = errors.New("ingest: duplicate function")
	ErrDuplicateParameter = errors.New("ingest: duplicate action or axiom parameter")
	ErrUnknownPredicate   = errors.New("ingest: reference to undeclared predicate")
	ErrUnknownFunction    = errors.New("ingest: reference to undeclared function")
	ErrUnknownObject      = errors.New("ingest: reference to undeclared object")
	ErrUnboundVariable    = errors.New("ingest: reference to undeclared parameter")
	ErrArityMismatch      = errors.New("ingest: argument count does not match declared arity")
	ErrBadAxiomHead       = errors.New("ingest: axiom head argument is not a parameter")
)

type builder struct {
	repo    *repo.Repository
	predIdx map[string]intern.Index[entity.Predicate]
	predAr  map[string]int
	fnIdx   map[string]intern.Index[entity.Function]
	fnAr    map[string]int
	objIdx  map[string]intern.Index[entity.Object]
}

func newBuilder(r *repo.Repository) *builder {
	return &builder{
		repo:    r,
		predIdx: make(map[string]intern.Index[entity.Predicate]),
		predAr:  make(map[string]int),
		fnIdx:   make(map[string]intern.Index[entity.Function]),
		fnAr:    make(map[string]int),
		objIdx:  make(map[string]intern.Index[entity.Object]),
	}
}

func (b *builder) term(t ast.Term, params map[string]int) (entity.Term, error) {
	if t.IsParam {
		i, ok := params[t.Name]
		if !ok {
			return entity.Term{}, fmt.Errorf("%w: %q", ErrUnboundVariable, t.Name)
		}
		return entity.ParamTerm(i), nil
	}
	obj, ok := b.objIdx[t.Name]
	if !ok {
		return entity.Term{}, fmt.Errorf("%w: %q", ErrUnknownObject, t.Name)
	}
	return entity.ObjectTerm(obj), nil
}

func (b *builder) terms(ts []ast.Term, params map[string]int) ([]entity.Term, error) {
	out := make([]entity.Term, len(ts))
	for i, t := range ts {
		et, err := b.term(t, params)
		if err != nil {
			return nil, err
		}
		out[i] = et
	}
	return out, nil
}

func (b *builder) atom(predName string, args []ast.Term, params map[string]int) (entity.Atom, error) {
	pred, ok := b.predIdx[predName]
	if !ok {
		return entity.Atom{}, fmt.Errorf("%w: %q", ErrUnknownPredicate, predName)
	}
	if b.predAr[predName] != len(args) {
		return entity.Atom{}, fmt.Errorf("%w: predicate %q expects %d arguments, got %d", ErrArityMismatch, predName, b.predAr[predName], len(args))
	}
	terms, err := b.terms(args, params)
	if err != nil {
		return entity.Atom{}, err
	}
	kind := b.repo.Predicates.At(pred).Kind
	return entity.Atom{Predicate: pred, Terms: terms, Kind: kind}, nil
}

func (b *builder) literal(lit ast.Literal, params map[string]int) (entity.Literal, error) {
	atom, err := b.atom(lit.Predicate, lit.Args, params)
	if err != nil {
		return entity.Literal{}, err
	}
	idx := b.repo.Atom(atom.Predicate, atom.Terms, atom.Kind)
	return entity.Literal{Positive: lit.Positive, Atom: idx}, nil
}

func (b *builder) functionTerm(fnName string, args []ast.Term, params map[string]int) (intern.Index[entity.FunctionTerm], entity.FactKind, error) {
	fn, ok := b.fnIdx[fnName]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownFunction, fnName)
	}
	if b.fnAr[fnName] != len(args) {
		return 0, 0, fmt.Errorf("%w: function %q expects %d arguments, got %d", ErrArityMismatch, fnName, b.fnAr[fnName], len(args))
	}
	terms, err := b.terms(args, params)
	if err != nil {
		return 0, 0, err
	}
	kind := b.repo.Functions.At(fn).Kind
	return b.repo.FunctionTerm(fn, terms, kind), kind, nil
}

func (b *builder) expr(e ast.Expr, params map[string]int) (intern.Index[entity.FunctionExpr], error) {
	switch e.Kind {
	case entity.ExprConst:
		return b.repo.ConstExpr(e.Const), nil
	case entity.ExprFunctionTerm:
		ft, _, err := b.functionTerm(e.Function, e.Args, params)
		if err != nil {
			return 0, err
		}
		return b.repo.FunctionTermExpr(ft), nil
	case entity.ExprArith:
		operands := make([]intern.Index[entity.FunctionExpr], len(e.Operands))
		for i, o := range e.Operands {
			idx, err := b.expr(o, params)
			if err != nil {
				return 0, err
			}
			operands[i] = idx
		}
		return b.repo.ArithExpr(e.Op, operands...), nil
	default:
		return 0, fmt.Errorf("ingest: unknown expression kind %d", e.Kind)
	}
}

func (b *builder) numericConstraint(nc ast.NumericConstraint, params map[string]int) (entity.NumericConstraint, error) {
	leftIdx, err := b.expr(nc.Left, params)
	if err != nil {
		return entity.NumericConstraint{}, err
	}
	rightIdx, err := b.expr(nc.Right, params)
	if err != nil {
		return entity.NumericConstraint{}, err
	}
	return entity.NumericConstraint{Op: nc.Op, Left: *b.repo.FunctionExprs.At(leftIdx), Right: *b.repo.FunctionExprs.At(rightIdx)}, nil
}

func (b *builder) condition(c ast.Condition, numLocal int, params map[string]int) (intern.Index[entity.ConjunctiveCondition], error) {
	cc := entity.ConjunctiveCondition{NumVariables: numLocal}
	for _, lit := range c.Literals {
		el, err := b.literal(lit, params)
		if err != nil {
			return 0, err
		}
		kind := b.repo.Atoms.At(el.Atom).Kind
		switch kind {
		case entity.Static:
			cc.StaticLiterals = append(cc.StaticLiterals, el)
		case entity.Fluent:
			cc.FluentLiterals = append(cc.FluentLiterals, el)
		case entity.Derived:
			cc.DerivedLiterals = append(cc.DerivedLiterals, el)
		}
	}
	for _, nc := range c.Numeric {
		enc, err := b.numericConstraint(nc, params)
		if err != nil {
			return 0, err
		}
		cc.NumericConstraints = append(cc.NumericConstraints, enc)
	}
	return b.repo.Condition(cc), nil
}

func paramScope(names []string) (map[string]int, error) {
	scope := make(map[string]int, len(names))
	for i, n := range names {
		if _, dup := scope[n]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateParameter, n)
		}
		scope[n] = i
	}
	return scope, nil
}

func (b *builder) action(ad ast.ActionDecl) (entity.Action, error) {
	params, err := paramScope(ad.Parameters)
	if err != nil {
		return entity.Action{}, fmt.Errorf("action %q: %w", ad.Name, err)
	}
	precond, err := b.condition(ad.Precondition, 0, params)
	if err != nil {
		return entity.Action{}, fmt.Errorf("action %q precondition: %w", ad.Name, err)
	}
	effects := make([]entity.ConditionalEffect, len(ad.Effects))
	for i, ed := range ad.Effects {
		eff, err := b.conditionalEffect(ed, params)
		if err != nil {
			return entity.Action{}, fmt.Errorf("action %q effect %d: %w", ad.Name, i, err)
		}
		effects[i] = eff
	}
	vars := make([]entity.Variable, len(ad.Parameters))
	for i, n := range ad.Parameters {
		vars[i] = entity.Variable{Name: n}
	}
	return entity.Action{Name: ad.Name, Parameters: vars, Precondition: precond, Effects: effects}, nil
}

func (b *builder) conditionalEffect(ed ast.ConditionalEffect, outer map[string]int) (entity.ConditionalEffect, error) {
	scope := make(map[string]int, len(outer)+len(ed.ExtraVariables))
	for k, v := range outer {
		scope[k] = v
	}
	base := len(outer)
	for i, n := range ed.ExtraVariables {
		if _, dup := scope[n]; dup {
			return entity.ConditionalEffect{}, fmt.Errorf("%w: %q", ErrDuplicateParameter, n)
		}
		scope[n] = base + i
	}
	cond, err := b.condition(ed.Condition, len(ed.ExtraVariables), scope)
	if err != nil {
		return entity.ConditionalEffect{}, err
	}
	add := make([]entity.Literal, len(ed.Add))
	for i, lit := range ed.Add {
		el, err := b.literal(lit, scope)
		if err != nil {
			return entity.ConditionalEffect{}, err
		}
		add[i] = el
	}
	del := make([]entity.Literal, len(ed.Delete))
	for i, lit := range ed.Delete {
		el, err := b.literal(lit, scope)
		if err != nil {
			return entity.ConditionalEffect{}, err
		}
		del[i] = el
	}
	numEffs := make([]entity.NumericEffect, len(ed.NumericEffects))
	for i, ne := range ed.NumericEffects {
		ene, err := b.numericEffect(ne, scope)
		if err != nil {
			return entity.ConditionalEffect{}, err
		}
		numEffs[i] = ene
	}
	vars := make([]entity.Variable, len(ed.ExtraVariables))
	for i, n := range ed.ExtraVariables {
		vars[i] = entity.Variable{Name: n}
	}
	eff := entity.ConditionalEffect{
		ExtraVariables: vars,
		Condition:      cond,
		AddLiterals:    add,
		DeleteLiterals: del,
		NumericEffects: numEffs,
	}
	if ed.AuxiliaryEffect != nil {
		aux, err := b.numericEffect(*ed.AuxiliaryEffect, scope)
		if err != nil {
			return entity.ConditionalEffect{}, err
		}
		eff.AuxiliaryEffect = &aux
	}
	return eff, nil
}

func (b *builder) numericEffect(ne ast.NumericEffectDecl, params map[string]int) (entity.NumericEffect, error) {
	ft, _, err := b.functionTerm(ne.Function, ne.Args, params)
	if err != nil {
		return entity.NumericEffect{}, err
	}
	value, err := b.expr(ne.Value, params)
	if err != nil {
		return entity.NumericEffect{}, err
	}
	return entity.NumericEffect{Target: ft, Value: value}, nil
}

func (b *builder) axiom(ad ast.AxiomDecl) (entity.Axiom, error) {
	params, err := paramScope(ad.Parameters)
	if err != nil {
		return entity.Axiom{}, err
	}
	body, err := b.condition(ad.Body, 0, params)
	if err != nil {
		return entity.Axiom{}, fmt.Errorf("axiom body: %w", err)
	}
	for _, a := range ad.Head.Args {
		if !a.IsParam {
			return entity.Axiom{}, fmt.Errorf("%w: %q", ErrBadAxiomHead, a.Name)
		}
	}
	head, err := b.atom(ad.Head.Predicate, ad.Head.Args, params)
	if err != nil {
		return entity.Axiom{}, fmt.Errorf("axiom head: %w", err)
	}
	vars := make([]entity.Variable, len(ad.Parameters))
	for i, n := range ad.Parameters {
		vars[i] = entity.Variable{Name: n}
	}
	return entity.Axiom{Parameters: vars, Body: body, Head: head}, nil
}

// Domain interns d into a fresh base repository, returning the resulting
// repo.Domain. Predicate and function declarations must have unique
// names; actions and axioms may only reference predicates, functions,
// and parameters already declared in scope.
func Domain(d *ast.Domain) (*repo.Domain, error) {
	r := repo.NewRepository()
	b := newBuilder(r)

	var preds []intern.Index[entity.Predicate]
	for _, pd := range d.Predicates {
		if _, dup := b.predIdx[pd.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePredicate, pd.Name)
		}
		idx := r.Predicate(pd.Name, pd.Arity, pd.Kind)
		b.predIdx[pd.Name] = idx
		b.predAr[pd.Name] = pd.Arity
		preds = append(preds, idx)
	}
	var fns []intern.Index[entity.Function]
	for _, fd := range d.Functions {
		if _, dup := b.fnIdx[fd.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateFunction, fd.Name)
		}
		idx := r.Function(fd.Name, fd.Arity, fd.Kind)
		b.fnIdx[fd.Name] = idx
		b.fnAr[fd.Name] = fd.Arity
		fns = append(fns, idx)
	}

	var actions []intern.Index[entity.Action]
	for _, ad := range d.Actions {
		a, err := b.action(ad)
		if err != nil {
			return nil, err
		}
		actions = append(actions, r.Action(a))
	}
	var axioms []intern.Index[entity.Axiom]
	for _, xd := range d.Axioms {
		x, err := b.axiom(xd)
		if err != nil {
			return nil, err
		}
		axioms = append(axioms, r.Axiom(x))
	}

	return &repo.Domain{
		Repo:       r,
		Name:       d.Name,
		Predicates: preds,
		Functions:  fns,
		Actions:    actions,
		Axioms:     axioms,
	}, nil
}

// Problem interns p into a repository overlaying domain.Repo, returning
// the resulting repo.Task. Objects declared by the problem are the only
// constant terms goal/initial literals may reference; actions and axioms
// are inherited unchanged from the domain.
func Problem(domain *repo.Domain, p *ast.Problem) (*repo.Task, error) {
	overlay := repo.NewOverlayRepository(domain.Repo)
	b := newBuilder(overlay)
	for _, idx := range domain.Predicates {
		pred := *overlay.Predicates.At(idx)
		b.predIdx[pred.Name] = idx
		b.predAr[pred.Name] = pred.Arity
	}
	for _, idx := range domain.Functions {
		fn := *overlay.Functions.At(idx)
		b.fnIdx[fn.Name] = idx
		b.fnAr[fn.Name] = fn.Arity
	}

	var objects []intern.Index[entity.Object]
	for _, name := range p.Objects {
		idx := overlay.Object(name)
		b.objIdx[name] = idx
		objects = append(objects, idx)
	}

	var initialAtoms []entity.GroundAtomRef
	for _, lit := range p.InitialLiterals {
		if !lit.Positive {
			return nil, fmt.Errorf("ingest: initial literal %q must be positive", lit.Predicate)
		}
		atom, err := b.atom(lit.Predicate, lit.Args, nil)
		if err != nil {
			return nil, fmt.Errorf("initial literal: %w", err)
		}
		args, err := b.terms(lit.Args, nil)
		if err != nil {
			return nil, err
		}
		binding := make(entity.Binding, len(args))
		for i, t := range args {
			binding[i] = t.Object
		}
		ref, _ := overlay.GroundAtoms.GetOrCreate(atom.Predicate, binding)
		initialAtoms = append(initialAtoms, ref)
	}

	var initialValues []entity.GroundFunctionTermValue
	for _, fv := range p.InitialValues {
		ft, kind, err := b.functionTerm(fv.Function, fv.Args, nil)
		if err != nil {
			return nil, fmt.Errorf("initial function value: %w", err)
		}
		terms := overlay.FunctionTerms.At(ft).Terms
		binding := make(entity.Binding, len(terms))
		for i, t := range terms {
			binding[i] = t.Object
		}
		fn := overlay.FunctionTerms.At(ft).Function
		ref, _ := overlay.GroundFunctionTerms.GetOrCreate(fn, binding)
		initialValues = append(initialValues, entity.GroundFunctionTermValue{Term: ref, Value: fv.Value, Kind: kind})
	}

	goal, err := b.condition(p.Goal, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("goal: %w", err)
	}

	var metric *repo.Metric
	if p.Metric != nil {
		idx, err := b.expr(p.Metric.Expression, nil)
		if err != nil {
			return nil, fmt.Errorf("metric: %w", err)
		}
		metric = &repo.Metric{Expression: idx}
	}

	return &repo.Task{
		Domain:                domain,
		Repo:                  overlay,
		Objects:               objects,
		InitialAtoms:          initialAtoms,
		InitialFunctionValues: initialValues,
		Goal:                  goal,
		Metric:                metric,
		Axioms:                domain.Axioms,
		Actions:               domain.Actions,
	}, nil
}
