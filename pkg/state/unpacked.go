package state

// Unpacked is a decoded state: two bitsets (fluent, derived atom ids) and
// a numeric-variable vector, borrowed from a pool for the duration of a
// single search step or axiom evaluation. Auxiliary holds the running
// cost accumulator a conditional effect's auxiliary effect may replace.
type Unpacked struct {
	Fluent    Bitset
	Derived   Bitset
	Numeric   []float64
	Auxiliary float64
}

// Reset clears every bit and numeric slot, implementing pool.Resettable.
// It does not shrink the underlying slices, so a reused Unpacked avoids
// reallocating once it has grown to the task's state size.
func (u *Unpacked) Reset() {
	u.Fluent.Reset()
	u.Derived.Reset()
	for i := range u.Numeric {
		u.Numeric[i] = 0
	}
	u.Auxiliary = 0
}

// NewUnpacked creates an Unpacked sized for idx's atom and term counts.
func NewUnpacked(idx *Indexer) *Unpacked {
	return &Unpacked{
		Fluent:  NewBitset(idx.NumFluentAtoms()),
		Derived: NewBitset(idx.NumDerivedAtoms()),
		Numeric: make([]float64, idx.NumFluentTerms()),
	}
}
