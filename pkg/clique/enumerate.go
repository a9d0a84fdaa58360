// Package clique enumerates the complete k-partite subgraphs ("cliques")
// of a rule's static consistency graph: one vertex per rule parameter,
// pairwise consistent under every static binary literal, further pruned
// by a caller-supplied per-parameter filter derived from the current
// fluent/derived assignment sets. Each emitted clique is one candidate
// parameter binding for the rule grounder (package grounder).
//
// A modified Bron-Kerbosch search with a per-level pivot chosen from the
// smallest remaining partition is one way to do this search faster; the
// canonical enumeration order the rest of the planner depends on for
// determinism is "partitions in parameter order, vertices in
// object-index order" regardless of strategy. This implementation
// performs the equivalent search as a plain left-to-right backtrack over
// partitions in parameter order, which already satisfies that canonical
// order and the clique-completeness property; it forgoes the
// pivot-selection optimisation (see DESIGN.md, component G), since only the enumerated set and its order need to be
// exact, not the internal search strategy.
package clique

import (
	"github.com/gokanplan/gokanplan/pkg/analysis"
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/intern"
)

// AllowedFunc reports whether object may be bound to the param-th
// parameter, independent of any other parameter's binding. The grounder
// supplies one derived from the rule's fluent/derived literals, so that a
// vertex a static analysis alone would allow can still be pruned by the
// current state.
type AllowedFunc func(param int, object intern.Index[entity.Object]) bool

// Enumerate emits every complete binding (one object per parameter) that
// is pairwise consistent under g.Edge and passes allowed for every
// parameter, in deterministic parameter-then-object-index order. emit is
// called once per binding; returning false from emit stops the search
// early (used by callers that only need the first match, e.g. existence
// checks).
func Enumerate(g *analysis.ConsistencyGraph, allowed AllowedFunc, emit func(entity.Binding) bool) {
	n := len(g.Domains)
	binding := make(entity.Binding, n)

	var search func(i int) bool
	search = func(i int) bool {
		if i == n {
			out := make(entity.Binding, n)
			copy(out, binding)
			return emit(out)
		}
		for _, obj := range g.Domains[i] {
			if allowed != nil && !allowed(i, obj) {
				continue
			}
			consistent := true
			for j := 0; j < i; j++ {
				if !g.Edge(j, binding[j], i, obj) {
					consistent = false
					break
				}
			}
			if !consistent {
				continue
			}
			binding[i] = obj
			if !search(i + 1) {
				return false
			}
		}
		return true
	}
	search(0)
}

// All collects every binding Enumerate would emit into a slice, for
// callers that want the full set rather than a streaming callback.
func All(g *analysis.ConsistencyGraph, allowed AllowedFunc) []entity.Binding {
	var out []entity.Binding
	Enumerate(g, allowed, func(b entity.Binding) bool {
		out = append(out, b)
		return true
	})
	return out
}
