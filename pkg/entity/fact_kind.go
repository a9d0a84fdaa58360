// Package entity defines the full set of planning entities described by
// the repository layer: objects, variables, predicates and their atoms
// and literals, numeric functions and expressions, conjunctive
// conditions, rules, actions, and axioms. Every exported type implements
// intern.Keyed so it can be stored in a Store or Overlay (package intern)
// with transparent, hash-based deduplication.
//
// A deeply templated class hierarchy keyed by fact kind is one way to
// model this; Go has no partial template specialization, so FactKind
// here is a runtime tag carried as a struct field rather than a type
// parameter. Canonical equality, hashing, and formatting all key off of
// Key(), which folds in the tag wherever it participates in identity.
package entity

// FactKind classifies a predicate, function, atom, literal, or function
// term by how it changes over the course of a search.
type FactKind uint8

const (
	// Static facts never change during search.
	Static FactKind = iota
	// Fluent facts form the mutable state that actions modify.
	Fluent
	// Derived facts are computed by axioms, never asserted directly.
	Derived
	// Auxiliary is reserved for the single numeric cost accumulator.
	Auxiliary
)

func (k FactKind) String() string {
	switch k {
	case Static:
		return "static"
	case Fluent:
		return "fluent"
	case Derived:
		return "derived"
	case Auxiliary:
		return "auxiliary"
	default:
		return "unknown"
	}
}
