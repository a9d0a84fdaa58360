package entity

import (
	"fmt"
	"sort"
	"strings"
)

// ConjunctiveCondition is a conjunction of literals partitioned by fact
// kind, plus numeric constraints. Partitioning lets the grounder apply
// cheap static filtering before touching the more expensive fluent and
// derived assignment sets (see package analysis).
//
// Canonicalisation sorts each literal slice (an unordered component) so
// that two conditions built from permuted literal lists intern to the
// same index, per the repository layer's canonical-equality invariant.
type ConjunctiveCondition struct {
	NumVariables        int // count of locally quantified (non-parameter) variables
	StaticLiterals      []Literal
	FluentLiterals      []Literal
	DerivedLiterals     []Literal
	NumericConstraints  []NumericConstraint
}

// Canonicalise returns a copy of c with every unordered component sorted
// into a deterministic order. Call this before interning a
// ConjunctiveCondition so Key() is independent of construction order.
func (c ConjunctiveCondition) Canonicalise() ConjunctiveCondition {
	out := c
	out.StaticLiterals = sortedLiterals(c.StaticLiterals)
	out.FluentLiterals = sortedLiterals(c.FluentLiterals)
	out.DerivedLiterals = sortedLiterals(c.DerivedLiterals)
	out.NumericConstraints = append([]NumericConstraint(nil), c.NumericConstraints...)
	key := func(nc NumericConstraint) string {
		return fmt.Sprintf("%d:%s:%s", nc.Op, nc.Left.Key(), nc.Right.Key())
	}
	sort.Slice(out.NumericConstraints, func(i, j int) bool {
		return key(out.NumericConstraints[i]) < key(out.NumericConstraints[j])
	})
	return out
}

func sortedLiterals(lits []Literal) []Literal {
	out := append([]Literal(nil), lits...)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (c ConjunctiveCondition) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cc:%d|", c.NumVariables)
	writeLiteralKeys(&b, c.StaticLiterals)
	b.WriteByte('|')
	writeLiteralKeys(&b, c.FluentLiterals)
	b.WriteByte('|')
	writeLiteralKeys(&b, c.DerivedLiterals)
	b.WriteByte('|')
	for i, nc := range c.NumericConstraints {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d:%s:%s", nc.Op, nc.Left.Key(), nc.Right.Key())
	}
	return b.String()
}

func writeLiteralKeys(b *strings.Builder, lits []Literal) {
	for i, l := range lits {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(l.Key())
	}
}

// GroundConjunctiveCondition is the fully-substituted counterpart used by
// the action executor and search heuristics to test whether a state
// satisfies a goal or a precondition.
type GroundConjunctiveCondition struct {
	Literals            []GroundLiteral
	NumericConstraints  []GroundNumericConstraint
}
