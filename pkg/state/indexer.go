// Package state implements the packed/unpacked state representation: a
// state is three content-addressed slot trees — a sorted fluent-atom id
// set, a sorted derived-atom id set, and a numeric-variable vector — each
// interned once so that two states with identical contents share all
// three trees and compare equal by their single StateIndex.
package state

import (
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/intern"
	"github.com/gokanplan/gokanplan/pkg/repo"
)

// Indexer assigns a dense, zero-based id to every known fluent ground
// atom, derived ground atom, and fluent ground function term, flattening
// the group-indexed (predicate, local) identity every other package uses
// into the single flat numbering a state's bitsets and numeric vector
// are built over. It is built once, after initial grounding completes;
// ground atoms and terms first interned later (for instance by an action
// effect) get the next free id when FluentID, DerivedID or FluentTermID
// first sees them.
type Indexer struct {
	FluentAtoms   []entity.GroundAtomRef
	fluentIndex   map[entity.GroundAtomRef]uint32
	DerivedAtoms  []entity.GroundAtomRef
	derivedIndex  map[entity.GroundAtomRef]uint32
	FluentTerms   []entity.GroundFunctionTermRef
	fluentTermIdx map[entity.GroundFunctionTermRef]uint32
}

// Build constructs an Indexer over every fluent and derived ground atom,
// and every fluent ground function term, currently known to r.
func Build(r *repo.Repository) *Indexer {
	idx := &Indexer{
		fluentIndex:   make(map[entity.GroundAtomRef]uint32),
		derivedIndex:  make(map[entity.GroundAtomRef]uint32),
		fluentTermIdx: make(map[entity.GroundFunctionTermRef]uint32),
	}
	for i, pred := range r.Predicates.All() {
		predIdx := intern.Index[entity.Predicate](i)
		switch pred.Kind {
		case entity.Fluent:
			for _, ref := range r.GroundAtoms.All(predIdx) {
				idx.fluentIndex[ref] = uint32(len(idx.FluentAtoms))
				idx.FluentAtoms = append(idx.FluentAtoms, ref)
			}
		case entity.Derived:
			for _, ref := range r.GroundAtoms.All(predIdx) {
				idx.derivedIndex[ref] = uint32(len(idx.DerivedAtoms))
				idx.DerivedAtoms = append(idx.DerivedAtoms, ref)
			}
		}
	}
	for i, fn := range r.Functions.All() {
		fnIdx := intern.Index[entity.Function](i)
		if fn.Kind != entity.Fluent {
			continue
		}
		for _, ref := range groundFunctionTermsOf(r, fnIdx) {
			idx.fluentTermIdx[ref] = uint32(len(idx.FluentTerms))
			idx.FluentTerms = append(idx.FluentTerms, ref)
		}
	}
	return idx
}

func groundFunctionTermsOf(r *repo.Repository, fn intern.Index[entity.Function]) []entity.GroundFunctionTermRef {
	n := r.GroundFunctionTerms.Len(fn)
	out := make([]entity.GroundFunctionTermRef, n)
	for i := 0; i < n; i++ {
		out[i] = entity.GroundFunctionTermRef{Function: fn, Local: intern.Index[entity.GroundFunctionTermBinding](i)}
	}
	return out
}

// FluentID returns ref's dense fluent-atom id, registering it if the
// grounder discovered it after Build ran (e.g. a conditional effect whose
// add-literal was never asserted during initial grounding).
func (idx *Indexer) FluentID(ref entity.GroundAtomRef) uint32 {
	if id, ok := idx.fluentIndex[ref]; ok {
		return id
	}
	id := uint32(len(idx.FluentAtoms))
	idx.fluentIndex[ref] = id
	idx.FluentAtoms = append(idx.FluentAtoms, ref)
	return id
}

// TryFluentID reports ref's dense fluent-atom id without registering it,
// used to tell a fluent ground atom apart from a derived one by which
// universe recognises it.
func (idx *Indexer) TryFluentID(ref entity.GroundAtomRef) (uint32, bool) {
	id, ok := idx.fluentIndex[ref]
	return id, ok
}

// TryFluentTermID reports ref's dense fluent-function-term id without
// registering it.
func (idx *Indexer) TryFluentTermID(ref entity.GroundFunctionTermRef) (uint32, bool) {
	id, ok := idx.fluentTermIdx[ref]
	return id, ok
}

// TryDerivedID reports ref's dense derived-atom id without registering it.
func (idx *Indexer) TryDerivedID(ref entity.GroundAtomRef) (uint32, bool) {
	id, ok := idx.derivedIndex[ref]
	return id, ok
}

// DerivedID returns ref's dense derived-atom id, registering it if new.
func (idx *Indexer) DerivedID(ref entity.GroundAtomRef) uint32 {
	if id, ok := idx.derivedIndex[ref]; ok {
		return id
	}
	id := uint32(len(idx.DerivedAtoms))
	idx.derivedIndex[ref] = id
	idx.DerivedAtoms = append(idx.DerivedAtoms, ref)
	return id
}

// FluentTermID returns ref's dense fluent-function-term id.
func (idx *Indexer) FluentTermID(ref entity.GroundFunctionTermRef) uint32 {
	if id, ok := idx.fluentTermIdx[ref]; ok {
		return id
	}
	id := uint32(len(idx.FluentTerms))
	idx.fluentTermIdx[ref] = id
	idx.FluentTerms = append(idx.FluentTerms, ref)
	return id
}

func (idx *Indexer) NumFluentAtoms() int  { return len(idx.FluentAtoms) }
func (idx *Indexer) NumDerivedAtoms() int { return len(idx.DerivedAtoms) }
func (idx *Indexer) NumFluentTerms() int  { return len(idx.FluentTerms) }
