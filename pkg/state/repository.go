package state

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gokanplan/gokanplan/pkg/arena"
	"github.com/gokanplan/gokanplan/pkg/intern"
	"github.com/gokanplan/gokanplan/pkg/pool"
)

type floatEntry struct{ value float64 }

func (f floatEntry) Key() string { return strconv.FormatUint(math.Float64bits(f.value), 16) }

// stateEntry is the identifying triple of a packed state: its three
// interned slot trees. Two Unpacked states with identical fluent bits,
// derived bits, and numeric values always produce the same stateEntry,
// so StateIndex doubles as a canonical equality test.
type stateEntry struct {
	Fluent  intern.Index[slotTree]
	Derived intern.Index[slotTree]
	Numeric intern.Index[slotTree]
}

func (s stateEntry) Key() string {
	return fmt.Sprintf("%d|%d|%d", uint32(s.Fluent), uint32(s.Derived), uint32(s.Numeric))
}

// StateIndex identifies a packed, interned state.
type StateIndex = intern.Index[stateEntry]

// Repository packs and unpacks states through a shared arena and three
// families of content-addressed slot trees, and lends out pooled
// Unpacked values so the search loop and axiom evaluator never allocate
// one per state.
type Repository struct {
	Indexer *Indexer

	buf         *arena.SegmentedBuffer
	fluentTrees *intern.Store[slotTree]
	derivTrees  *intern.Store[slotTree]
	numTrees    *intern.Store[slotTree]
	floats      *intern.Store[floatEntry]
	states      *intern.Store[stateEntry]
	pool        *pool.Pool[Unpacked]
}

// NewRepository creates a state repository over idx's atom/term
// numbering.
func NewRepository(idx *Indexer) *Repository {
	return &Repository{
		Indexer:     idx,
		buf:         arena.NewSegmentedBuffer(4096),
		fluentTrees: intern.NewStore[slotTree](),
		derivTrees:  intern.NewStore[slotTree](),
		numTrees:    intern.NewStore[slotTree](),
		floats:      intern.NewStore[floatEntry](),
		states:      intern.NewStore[stateEntry](),
		pool:        pool.New(func() *Unpacked { return NewUnpacked(idx) }),
	}
}

// Acquire borrows a pooled, reset Unpacked value.
func (r *Repository) Acquire() pool.Ptr[Unpacked] {
	return r.pool.Acquire()
}

func (r *Repository) internIDs(store *intern.Store[slotTree], ids []uint32) intern.Index[slotTree] {
	key := encodeIDKey(ids)
	if idx, ok := store.Find(slotTree{key: key}); ok {
		return idx
	}
	off := r.buf.Write(encodeIDBytes(ids), 4)
	idx, _ := store.GetOrCreate(slotTree{key: key, offset: off, count: len(ids)})
	return idx
}

func (r *Repository) readIDs(store *intern.Store[slotTree], idx intern.Index[slotTree]) []uint32 {
	t := *store.At(idx)
	if t.count == 0 {
		return nil
	}
	return decodeIDBytes(r.buf.Read(t.offset))
}

func (r *Repository) internFloat(v float64) uint32 {
	idx, _ := r.floats.GetOrCreate(floatEntry{value: v})
	return uint32(idx)
}

// Register interns u's three slot trees and returns the canonical
// StateIndex for its contents, creating one if this is the first time
// these exact contents have been seen.
func (r *Repository) Register(u *Unpacked) StateIndex {
	fluentIDs := u.Fluent.SortedIDs()
	derivedIDs := u.Derived.SortedIDs()
	numericIDs := make([]uint32, len(u.Numeric))
	for i, v := range u.Numeric {
		numericIDs[i] = r.internFloat(v)
	}

	entry := stateEntry{
		Fluent:  r.internIDs(r.fluentTrees, fluentIDs),
		Derived: r.internIDs(r.derivTrees, derivedIDs),
		Numeric: r.internIDs(r.numTrees, numericIDs),
	}
	idx, _ := r.states.GetOrCreate(entry)
	return idx
}

// Unpack decodes idx's slot trees into a freshly-acquired pooled
// Unpacked. The caller owns the returned handle and must Drop it.
func (r *Repository) Unpack(idx StateIndex) pool.Ptr[Unpacked] {
	entry := *r.states.At(idx)
	h := r.pool.Acquire()
	u := h.Get()

	for _, id := range r.readIDs(r.fluentTrees, entry.Fluent) {
		u.Fluent.Set(id)
	}
	for _, id := range r.readIDs(r.derivTrees, entry.Derived) {
		u.Derived.Set(id)
	}
	for i, floatIdx := range r.readIDs(r.numTrees, entry.Numeric) {
		u.Numeric[i] = r.floats.At(intern.Index[floatEntry](floatIdx)).value
	}
	return h
}
