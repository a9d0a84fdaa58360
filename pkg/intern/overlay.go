package intern

// Overlay wraps a parent Repository, immutable from the overlay's point of
// view, with a local Store that new entries are appended to. It partitions
// the index space at the parent's current size: indices below that size
// dispatch to the parent, indices at or above it dispatch to the local
// store after subtracting the parent's size. Overlays nest freely (an
// overlay can be the parent of another overlay); a per-task repository
// extends a shared per-domain one this way.
type Overlay[T Keyed] struct {
	Parent Repository[T]
	Local  *Store[T]
}

// NewOverlay creates an overlay over parent with a fresh, empty local
// store.
func NewOverlay[T Keyed](parent Repository[T]) *Overlay[T] {
	return &Overlay[T]{Parent: parent, Local: NewStore[T]()}
}

// Find checks the parent first, then the local store, returning the
// local store's contribution re-based into the overlay's index space.
func (o *Overlay[T]) Find(data T) (Index[T], bool) {
	if idx, ok := o.Parent.Find(data); ok {
		return idx, true
	}
	if idx, ok := o.Local.Find(data); ok {
		return Index[T](uint32(o.Parent.Len()) + uint32(idx)), true
	}
	return 0, false
}

// GetOrCreate returns the parent's index for data if the parent already
// has it; otherwise it inserts into the local store, assigning the index
// parent.Len() + local_position so the overlay invariant holds even if
// other kinds in the same overlay have grown independently.
func (o *Overlay[T]) GetOrCreate(data T) (Index[T], bool) {
	if idx, ok := o.Parent.Find(data); ok {
		return idx, false
	}
	localIdx, inserted := o.Local.GetOrCreate(data)
	return Index[T](uint32(o.Parent.Len()) + uint32(localIdx)), inserted
}

// At dispatches idx to the parent or the local store depending on which
// partition it falls in.
func (o *Overlay[T]) At(idx Index[T]) *T {
	parentLen := uint32(o.Parent.Len())
	if uint32(idx) < parentLen {
		return o.Parent.At(idx)
	}
	return o.Local.At(Index[T](uint32(idx) - parentLen))
}

// Len reports the combined size of the parent and the local store.
func (o *Overlay[T]) Len() int { return o.Parent.Len() + o.Local.Len() }

// All returns every value visible through the overlay, parent entries
// first, in index order.
func (o *Overlay[T]) All() []*T {
	out := make([]*T, 0, o.Len())
	out = append(out, o.Parent.All()...)
	out = append(out, o.Local.All()...)
	return out
}
