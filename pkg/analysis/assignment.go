// Package analysis computes, once per program, the static data the rule
// grounder (package grounder) and clique enumerator (package clique) use
// to avoid enumerating bindings that could never satisfy a rule body:
// per-predicate assignment sets (which objects occur, and where) and
// per-rule static consistency graphs (which object pairs jointly satisfy
// every static binary literal of the body).
package analysis

import (
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/intern"
)

// AssignmentSet tracks, for one predicate, which objects have been seen
// at which argument position across every known ground atom of that
// predicate. PossibleAt answers "is any atom of this predicate compatible
// with object o at position i?" in O(1), which is the per-constraint
// check 4.F describes; it is a necessary but not sufficient condition for
// "some full fact matches this binding" (positions are checked
// independently), so callers needing exact membership go through
// repo.GroundAtomTable.Find instead and use AssignmentSet purely to prune
// before that exact check.
type AssignmentSet struct {
	arity         int
	objectsAtPos  []map[intern.Index[entity.Object]]struct{}
}

// NewAssignmentSet creates an empty assignment set for a predicate of the
// given arity.
func NewAssignmentSet(arity int) *AssignmentSet {
	pos := make([]map[intern.Index[entity.Object]]struct{}, arity)
	for i := range pos {
		pos[i] = make(map[intern.Index[entity.Object]]struct{})
	}
	return &AssignmentSet{arity: arity, objectsAtPos: pos}
}

// Add records that binding is a known fact of this predicate.
func (a *AssignmentSet) Add(binding entity.Binding) {
	for i, obj := range binding {
		if i >= a.arity {
			break
		}
		a.objectsAtPos[i][obj] = struct{}{}
	}
}

// PossibleAt reports whether some known fact of this predicate has obj at
// position i.
func (a *AssignmentSet) PossibleAt(i int, obj intern.Index[entity.Object]) bool {
	if i < 0 || i >= a.arity {
		return false
	}
	_, ok := a.objectsAtPos[i][obj]
	return ok
}

// PredicateDomains holds one AssignmentSet per predicate, rebuilt
// incrementally as new ground atoms are discovered during grounding (see
// package evaluator, which calls Add as each stratum commits new facts).
type PredicateDomains struct {
	sets map[intern.Index[entity.Predicate]]*AssignmentSet
}

// NewPredicateDomains creates an empty PredicateDomains.
func NewPredicateDomains() *PredicateDomains {
	return &PredicateDomains{sets: make(map[intern.Index[entity.Predicate]]*AssignmentSet)}
}

// For returns the AssignmentSet for pred, creating one of the given
// arity on first use.
func (d *PredicateDomains) For(pred intern.Index[entity.Predicate], arity int) *AssignmentSet {
	s, ok := d.sets[pred]
	if !ok {
		s = NewAssignmentSet(arity)
		d.sets[pred] = s
	}
	return s
}

// Add records binding as a known fact of pred.
func (d *PredicateDomains) Add(pred intern.Index[entity.Predicate], arity int, binding entity.Binding) {
	d.For(pred, arity).Add(binding)
}
