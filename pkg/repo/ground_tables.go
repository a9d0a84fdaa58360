// Package repo bundles one intern.Repository per entity kind into a
// single Repository value, plus the per-predicate / per-function tables
// that hold group-indexed GroundAtoms and GroundFunctionTerms (see
// entity.GroundAtomRef), and the Domain/Program/Task facades the rest of
// the planner consumes.
package repo

import (
	"sync"

	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/intern"
)

// GroundAtomTable holds one Store (or Overlay, if this table itself
// overlays a parent table) of ground-atom bindings per predicate, so a
// GroundAtom's local index is dense over exactly that predicate's known
// atoms as required by the repository's group-indexing invariant.
type GroundAtomTable struct {
	mu     sync.Mutex
	byPred map[intern.Index[entity.Predicate]]intern.Repository[entity.GroundAtomBinding]
	parent *GroundAtomTable
}

// NewGroundAtomTable creates a base (non-overlaid) ground-atom table.
func NewGroundAtomTable() *GroundAtomTable {
	return &GroundAtomTable{byPred: make(map[intern.Index[entity.Predicate]]intern.Repository[entity.GroundAtomBinding])}
}

// NewOverlayGroundAtomTable creates a ground-atom table that extends
// parent the way intern.Overlay extends an intern.Repository: per
// predicate, indices below the parent's count for that predicate
// dispatch to the parent.
func NewOverlayGroundAtomTable(parent *GroundAtomTable) *GroundAtomTable {
	return &GroundAtomTable{byPred: make(map[intern.Index[entity.Predicate]]intern.Repository[entity.GroundAtomBinding]), parent: parent}
}

func (t *GroundAtomTable) storeFor(pred intern.Index[entity.Predicate]) intern.Repository[entity.GroundAtomBinding] {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.byPred[pred]; ok {
		return s
	}
	var s intern.Repository[entity.GroundAtomBinding]
	if t.parent != nil {
		s = intern.NewOverlay[entity.GroundAtomBinding](t.parent.storeFor(pred))
	} else {
		s = intern.NewStore[entity.GroundAtomBinding]()
	}
	t.byPred[pred] = s
	return s
}

// GetOrCreate interns binding under pred, returning its full group-indexed
// ref and whether this call performed the insertion.
func (t *GroundAtomTable) GetOrCreate(pred intern.Index[entity.Predicate], binding entity.Binding) (entity.GroundAtomRef, bool) {
	idx, inserted := t.storeFor(pred).GetOrCreate(entity.GroundAtomBinding{Binding: binding})
	return entity.GroundAtomRef{Predicate: pred, Local: idx}, inserted
}

// Find looks up binding under pred without inserting.
func (t *GroundAtomTable) Find(pred intern.Index[entity.Predicate], binding entity.Binding) (entity.GroundAtomRef, bool) {
	idx, ok := t.storeFor(pred).Find(entity.GroundAtomBinding{Binding: binding})
	return entity.GroundAtomRef{Predicate: pred, Local: idx}, ok
}

// Binding returns the object binding stored at ref.
func (t *GroundAtomTable) Binding(ref entity.GroundAtomRef) entity.Binding {
	return t.storeFor(ref.Predicate).At(ref.Local).Binding
}

// Len reports how many ground atoms are known for pred.
func (t *GroundAtomTable) Len(pred intern.Index[entity.Predicate]) int {
	return t.storeFor(pred).Len()
}

// All returns every ground atom ref known for pred, in index order.
func (t *GroundAtomTable) All(pred intern.Index[entity.Predicate]) []entity.GroundAtomRef {
	n := t.Len(pred)
	out := make([]entity.GroundAtomRef, n)
	for i := 0; i < n; i++ {
		out[i] = entity.GroundAtomRef{Predicate: pred, Local: intern.Index[entity.GroundAtomBinding](i)}
	}
	return out
}

// GroundFunctionTermTable is the numeric-function counterpart of
// GroundAtomTable.
type GroundFunctionTermTable struct {
	mu     sync.Mutex
	byFunc map[intern.Index[entity.Function]]intern.Repository[entity.GroundFunctionTermBinding]
	parent *GroundFunctionTermTable
}

func NewGroundFunctionTermTable() *GroundFunctionTermTable {
	return &GroundFunctionTermTable{byFunc: make(map[intern.Index[entity.Function]]intern.Repository[entity.GroundFunctionTermBinding])}
}

func NewOverlayGroundFunctionTermTable(parent *GroundFunctionTermTable) *GroundFunctionTermTable {
	return &GroundFunctionTermTable{byFunc: make(map[intern.Index[entity.Function]]intern.Repository[entity.GroundFunctionTermBinding]), parent: parent}
}

func (t *GroundFunctionTermTable) storeFor(fn intern.Index[entity.Function]) intern.Repository[entity.GroundFunctionTermBinding] {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.byFunc[fn]; ok {
		return s
	}
	var s intern.Repository[entity.GroundFunctionTermBinding]
	if t.parent != nil {
		s = intern.NewOverlay[entity.GroundFunctionTermBinding](t.parent.storeFor(fn))
	} else {
		s = intern.NewStore[entity.GroundFunctionTermBinding]()
	}
	t.byFunc[fn] = s
	return s
}

func (t *GroundFunctionTermTable) GetOrCreate(fn intern.Index[entity.Function], binding entity.Binding) (entity.GroundFunctionTermRef, bool) {
	idx, inserted := t.storeFor(fn).GetOrCreate(entity.GroundFunctionTermBinding{Binding: binding})
	return entity.GroundFunctionTermRef{Function: fn, Local: idx}, inserted
}

func (t *GroundFunctionTermTable) Find(fn intern.Index[entity.Function], binding entity.Binding) (entity.GroundFunctionTermRef, bool) {
	idx, ok := t.storeFor(fn).Find(entity.GroundFunctionTermBinding{Binding: binding})
	return entity.GroundFunctionTermRef{Function: fn, Local: idx}, ok
}

func (t *GroundFunctionTermTable) Binding(ref entity.GroundFunctionTermRef) entity.Binding {
	return t.storeFor(ref.Function).At(ref.Local).Binding
}

// Len reports how many ground function terms are known for fn.
func (t *GroundFunctionTermTable) Len(fn intern.Index[entity.Function]) int {
	return t.storeFor(fn).Len()
}
