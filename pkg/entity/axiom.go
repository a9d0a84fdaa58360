package entity

import (
	"fmt"

	"github.com/gokanplan/gokanplan/pkg/intern"
)

// Axiom is (parameters, body, head): a derived-predicate definition.
// Axioms are grounded and stratified by package axiom, separately from
// the rules package evaluator processes; Axiom is kept as a distinct
// entity kind because the two are handled at different times (axioms
// close state at every search node, rules only during initial grounding).
type Axiom struct {
	Parameters []Variable
	Body       intern.Index[ConjunctiveCondition]
	Head       Atom
}

func (a Axiom) Key() string {
	return fmt.Sprintf("axiom:%d|%s|%d", len(a.Parameters), a.Head.Key(), uint32(a.Body))
}

// GroundAxiom is a fully-bound axiom instance produced by the grounder.
type GroundAxiom struct {
	Binding Binding
	Head    GroundAtomBinding
}
