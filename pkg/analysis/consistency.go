package analysis

import (
	"sort"

	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/intern"
	"github.com/gokanplan/gokanplan/pkg/repo"
)

// ParameterDomains is, per rule parameter, the conservative set of
// objects that could ever be bound to it — derived from the rule's unary
// static literals and type predicates, per 4.F. A parameter with no unary
// constraint falls back to every object in scope.
type ParameterDomains struct {
	Domains [][]intern.Index[entity.Object]
}

// ConsistencyGraph is the k-partite graph of 4.F: one partition per rule
// parameter, vertices restricted to ParameterDomains, and an Edge
// predicate encoding every static binary literal of the rule body that
// mentions exactly two distinct parameters. Parameter pairs with no
// shared binary literal are treated as unconstrained (Edge returns true),
// matching a k-partite graph whose missing edges have already been
// removed by construction — absence of a recorded constraint never
// removes a vertex pair, only a discovered mismatch does.
type ConsistencyGraph struct {
	Params  []entity.Variable
	Domains [][]intern.Index[entity.Object]
	allowed map[pairParams]map[pairObjects]struct{}
}

type pairParams struct{ A, B int }
type pairObjects struct {
	A, B intern.Index[entity.Object]
}

// Edge reports whether binding parameter pi to oi and pj to oj is
// consistent with every static binary literal connecting them.
func (g *ConsistencyGraph) Edge(pi int, oi intern.Index[entity.Object], pj int, oj intern.Index[entity.Object]) bool {
	a, b, oa, ob := pi, pj, oi, oj
	if a > b {
		a, b, oa, ob = b, a, ob, oa
	}
	allowed, ok := g.allowed[pairParams{a, b}]
	if !ok {
		return true
	}
	_, present := allowed[pairObjects{oa, ob}]
	return present
}

// Build constructs the static consistency graph for a rule body over
// numParams rule parameters. staticAtoms is the domain-level ground-atom
// table (already populated with every static fact, since static facts
// never change during search and are fully known before grounding
// starts). allObjects is the full object universe, used as the fallback
// domain for parameters with no unary constraint.
func Build(r *repo.Repository, staticAtoms *repo.GroundAtomTable, body entity.ConjunctiveCondition, numParams int, allObjects []intern.Index[entity.Object]) *ConsistencyGraph {
	domains := unaryDomains(r, staticAtoms, body, numParams, allObjects)
	g := &ConsistencyGraph{Domains: domains, allowed: make(map[pairParams]map[pairObjects]struct{})}

	for _, lit := range body.StaticLiterals {
		if !lit.Positive {
			continue // negative static literals are handled as exact post-filters, not as graph edges
		}
		atom := *r.Atoms.At(lit.Atom)
		params := paramPositions(atom.Terms)
		if len(params) != 2 {
			continue // unary constraints already folded into domains; >2 handled as exact post-filter
		}
		pi, pj := params[0].param, params[1].param
		pred := *r.Predicates.At(atom.Predicate)
		swapped := pi > pj
		a, b := pi, pj
		if swapped {
			a, b = pj, pi
		}
		allowedPairs := make(map[pairObjects]struct{})
		for _, ref := range staticAtoms.All(atom.Predicate) {
			binding := staticAtoms.Binding(ref)
			oa, ob := binding[params[0].pos], binding[params[1].pos]
			if swapped {
				oa, ob = ob, oa
			}
			allowedPairs[pairObjects{oa, ob}] = struct{}{}
		}
		_ = pred
		key := pairParams{a, b}
		if existing, ok := g.allowed[key]; ok {
			// Intersect with any previously recorded constraint on the
			// same parameter pair: both must hold simultaneously.
			for k := range existing {
				if _, still := allowedPairs[k]; !still {
					delete(existing, k)
				}
			}
		} else {
			g.allowed[key] = allowedPairs
		}
	}
	return g
}

type paramPos struct {
	param int
	pos   int
}

func paramPositions(terms []entity.Term) []paramPos {
	var out []paramPos
	for pos, t := range terms {
		if t.IsParameter {
			out = append(out, paramPos{param: t.ParamIndex, pos: pos})
		}
	}
	return out
}

func unaryDomains(r *repo.Repository, staticAtoms *repo.GroundAtomTable, body entity.ConjunctiveCondition, numParams int, allObjects []intern.Index[entity.Object]) [][]intern.Index[entity.Object] {
	domains := make([][]intern.Index[entity.Object], numParams)
	constrained := make([]bool, numParams)

	for _, lit := range body.StaticLiterals {
		if !lit.Positive {
			continue
		}
		atom := *r.Atoms.At(lit.Atom)
		params := paramPositions(atom.Terms)
		if len(params) != 1 {
			continue
		}
		p := params[0]
		seen := make(map[intern.Index[entity.Object]]struct{})
		var candidates []intern.Index[entity.Object]
		for _, ref := range staticAtoms.All(atom.Predicate) {
			binding := staticAtoms.Binding(ref)
			obj := binding[p.pos]
			if _, dup := seen[obj]; dup {
				continue
			}
			seen[obj] = struct{}{}
			candidates = append(candidates, obj)
		}
		if !constrained[p.param] {
			domains[p.param] = candidates
			constrained[p.param] = true
		} else {
			domains[p.param] = intersectObjects(domains[p.param], candidates)
		}
	}

	for i := range domains {
		if !constrained[i] {
			domains[i] = append([]intern.Index[entity.Object](nil), allObjects...)
		}
		sort.Slice(domains[i], func(a, b int) bool { return domains[i][a] < domains[i][b] })
	}
	return domains
}

func intersectObjects(a, b []intern.Index[entity.Object]) []intern.Index[entity.Object] {
	set := make(map[intern.Index[entity.Object]]struct{}, len(b))
	for _, o := range b {
		set[o] = struct{}{}
	}
	var out []intern.Index[entity.Object]
	for _, o := range a {
		if _, ok := set[o]; ok {
			out = append(out, o)
		}
	}
	return out
}
