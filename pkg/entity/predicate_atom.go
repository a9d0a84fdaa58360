package entity

import (
	"fmt"
	"strings"

	"github.com/gokanplan/gokanplan/pkg/intern"
)

// Predicate is (name, arity, fact kind). Two predicates with the same
// name but different arities or fact kinds are distinct entities.
type Predicate struct {
	Name  string
	Arity int
	Kind  FactKind
}

func (p Predicate) Key() string {
	return fmt.Sprintf("pred:%s/%d/%d", p.Name, p.Arity, p.Kind)
}

func (p Predicate) String() string { return fmt.Sprintf("%s/%d", p.Name, p.Arity) }

// Atom is (predicate, term list of arity length). Its Kind mirrors the
// predicate's, carried directly so callers never have to dereference the
// predicate just to branch on kind.
type Atom struct {
	Predicate intern.Index[Predicate]
	Terms     []Term
	Kind      FactKind
}

func (a Atom) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "atom:%d:%d(", uint32(a.Predicate), a.Kind)
	for i, t := range a.Terms {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Key())
	}
	b.WriteByte(')')
	return b.String()
}

// GroundAtomBinding is the (non-group-indexed) payload of a GroundAtom:
// the binding of objects substituted for an atom's terms. GroundAtoms are
// stored one Store[GroundAtomBinding] per predicate (see
// pkg/repo.GroundAtomTable), so that a GroundAtom's full index — the pair
// (predicate, local) — is dense over exactly that predicate's known
// atoms.
type GroundAtomBinding struct {
	Binding Binding
}

func (g GroundAtomBinding) Key() string { return g.Binding.key() }

// GroundAtomRef is a GroundAtom's full, group-indexed identity: the pair
// (predicate, local-index-within-that-predicate). Ordering is
// lexicographic, predicate first.
type GroundAtomRef struct {
	Predicate intern.Index[Predicate]
	Local     intern.Index[GroundAtomBinding]
}

// Less orders two GroundAtomRefs lexicographically by (Predicate, Local).
func (r GroundAtomRef) Less(other GroundAtomRef) bool {
	if r.Predicate != other.Predicate {
		return r.Predicate < other.Predicate
	}
	return r.Local < other.Local
}

func (r GroundAtomRef) String() string {
	return fmt.Sprintf("(%d,%d)", uint32(r.Predicate), uint32(r.Local))
}

// Literal is (polarity, atom). Negative literals participate in the
// stratified-negation analysis of the rule evaluator (package evaluator).
type Literal struct {
	Positive bool
	Atom     intern.Index[Atom]
}

func (l Literal) Key() string {
	sign := "+"
	if !l.Positive {
		sign = "-"
	}
	return fmt.Sprintf("lit:%s%d", sign, uint32(l.Atom))
}

func (l Literal) Less(other Literal) bool {
	if l.Atom != other.Atom {
		return l.Atom < other.Atom
	}
	return !l.Positive && other.Positive
}

// GroundLiteral is the ground counterpart of Literal: polarity over a
// fully-bound GroundAtomRef.
type GroundLiteral struct {
	Positive bool
	Atom     GroundAtomRef
}

func (l GroundLiteral) Less(other GroundLiteral) bool {
	if l.Atom != other.Atom {
		return l.Atom.Less(other.Atom)
	}
	return !l.Positive && other.Positive
}
