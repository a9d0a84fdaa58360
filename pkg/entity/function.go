package entity

import (
	"fmt"
	"strings"

	"github.com/gokanplan/gokanplan/pkg/intern"
)

// Function is the numeric counterpart of Predicate: (name, arity, fact
// kind), denoting a function symbol whose ground instances carry a
// float64 value rather than a truth value.
type Function struct {
	Name  string
	Arity int
	Kind  FactKind
}

func (f Function) Key() string {
	return fmt.Sprintf("func:%s/%d/%d", f.Name, f.Arity, f.Kind)
}

// FunctionTerm is (function, term list of arity length): the numeric
// counterpart of Atom.
type FunctionTerm struct {
	Function intern.Index[Function]
	Terms    []Term
	Kind     FactKind
}

func (ft FunctionTerm) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fterm:%d:%d(", uint32(ft.Function), ft.Kind)
	for i, t := range ft.Terms {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Key())
	}
	b.WriteByte(')')
	return b.String()
}

// GroundFunctionTermBinding is the payload of a GroundFunctionTerm,
// stored one Store[GroundFunctionTermBinding] per function the same way
// GroundAtomBinding is stored one Store per predicate.
type GroundFunctionTermBinding struct {
	Binding Binding
}

func (g GroundFunctionTermBinding) Key() string { return g.Binding.key() }

// GroundFunctionTermRef is a GroundFunctionTerm's group-indexed identity:
// (function, local-index-within-that-function).
type GroundFunctionTermRef struct {
	Function intern.Index[Function]
	Local    intern.Index[GroundFunctionTermBinding]
}

func (r GroundFunctionTermRef) Less(other GroundFunctionTermRef) bool {
	if r.Function != other.Function {
		return r.Function < other.Function
	}
	return r.Local < other.Local
}

// GroundFunctionTermValue pairs a ground function term with its current
// numeric value. For Static function terms this value never changes; for
// Fluent terms it is read from the state's numeric-variable vector; for
// Auxiliary it is the running cost accumulator.
type GroundFunctionTermValue struct {
	Term  GroundFunctionTermRef
	Value float64
	Kind  FactKind
}
