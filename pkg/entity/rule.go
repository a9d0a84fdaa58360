package entity

import (
	"fmt"

	"github.com/gokanplan/gokanplan/pkg/intern"
)

// Rule is (variables, body, head): a derived-predicate or fluent-update
// rule consumed by the bottom-up evaluator (package evaluator). The
// head's predicate determines which stratum the rule belongs to.
type Rule struct {
	Variables []Variable
	Body      intern.Index[ConjunctiveCondition]
	Head      Atom
}

func (r Rule) Key() string {
	return fmt.Sprintf("rule:%d|%s|%d", len(r.Variables), r.Head.Key(), uint32(r.Body))
}

// GroundRule is a fully-bound rule instance produced by the grounder: a
// ground body (implicitly satisfied, so only the head is carried forward)
// and a ground head atom ready to be asserted into the fact set.
type GroundRule struct {
	Binding Binding
	Head    GroundAtomBinding
}
