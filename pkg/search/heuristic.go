package search

import (
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/repo"
	"github.com/gokanplan/gokanplan/pkg/state"
)

// Heuristic estimates the remaining cost from a state to the goal. A
// search is generic over Heuristic: A★ sums it with g; GBFS orders by it
// alone. Evaluate must return a non-negative value, or +Inf to mark a
// state as a proven dead end.
//
// The goal is passed as an unground ConjunctiveCondition rather than the
// GroundConjunctiveCondition the interface trait is named for elsewhere:
// a goal has no parameters by construction, so every one of its terms is
// already a bound object, and grounding it substitutes nothing but still
// needs the repository to resolve each literal's ground-atom identity —
// which is why SetGoal takes the repository-aware unground form and
// implementations ground it themselves (see GoalCount).
type Heuristic interface {
	SetGoal(repo *repo.Repository, goal entity.ConjunctiveCondition)
	Evaluate(u *state.Unpacked) float64
}

// Blind is the zero heuristic: every state is estimated at cost 0, which
// makes A★ degrade to uniform-cost (Dijkstra) search and GBFS degrade to
// plain breadth order. It is the default when no domain-specific
// heuristic is supplied.
type Blind struct{}

func (Blind) SetGoal(*repo.Repository, entity.ConjunctiveCondition) {}
func (Blind) Evaluate(*state.Unpacked) float64                      { return 0 }

// GoalCount counts the goal's fluent and derived literals not yet
// satisfied in a state, the textbook admissible-in-spirit (not
// delete-relaxation-exact) heuristic: cheap to evaluate, ignores numeric
// constraints entirely. Static literals are never counted against a
// state — a state-independent pre-check already proves the search
// Unsolvable up front when a static goal literal can never hold, so by
// the time Evaluate runs every static literal still in scope is known
// satisfiable and is treated as already satisfied.
type GoalCount struct {
	indexer *state.Indexer
	literals []entity.GroundLiteral
}

// NewGoalCount builds a GoalCount heuristic over idx's dense atom
// numbering.
func NewGoalCount(idx *state.Indexer) *GoalCount {
	return &GoalCount{indexer: idx}
}

func (h *GoalCount) SetGoal(r *repo.Repository, goal entity.ConjunctiveCondition) {
	h.literals = nil
	ground := func(lits []entity.Literal) {
		for _, lit := range lits {
			atom := *r.Atoms.At(lit.Atom)
			binding := make(entity.Binding, len(atom.Terms))
			for i, t := range atom.Terms {
				binding[i] = t.Object
			}
			ref, _ := r.GroundAtoms.GetOrCreate(atom.Predicate, binding)
			h.literals = append(h.literals, entity.GroundLiteral{Positive: lit.Positive, Atom: ref})
		}
	}
	ground(goal.FluentLiterals)
	ground(goal.DerivedLiterals)
}

func (h *GoalCount) Evaluate(u *state.Unpacked) float64 {
	unsatisfied := 0
	for _, lit := range h.literals {
		holds := false
		if id, ok := h.indexer.TryFluentID(lit.Atom); ok {
			holds = u.Fluent.Test(id)
		} else if id, ok := h.indexer.TryDerivedID(lit.Atom); ok {
			holds = u.Derived.Test(id)
		}
		if holds != lit.Positive {
			unsatisfied++
		}
	}
	return float64(unsatisfied)
}
