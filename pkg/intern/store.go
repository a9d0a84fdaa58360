// Package intern implements the content-addressed deduplication layer
// ("IndexedHashSet") that every entity kind in package entity is stored
// through, plus the scoped/overlay decorator that lets a task-local
// repository extend a shared domain repository without renumbering or
// copying the parent's content.
//
// Position -> value -> id maps guarded by a mutex, generalized to a
// single generic store keyed by any type's canonical identifying-members
// string.
package intern

import (
	"fmt"
	"sync"
)

// Index identifies an interned value of type T by its dense position in a
// Repository[T]. The zero value is the index of the first interned value,
// so it cannot mean "unset"; callers that need an explicit "unset"
// sentinel use Unset.
type Index[T any] uint32

// Unset is the reserved sentinel meaning "no index", matching the source
// material's reserved maximum-value convention.
const Unset = ^uint32(0)

// IsUnset reports whether idx is the Unset sentinel.
func IsUnset[T any](idx Index[T]) bool { return uint32(idx) == Unset }

// Keyed is implemented by every entity kind stored in a Repository. Key
// must return a string built from the type's identifying members, in
// canonical (e.g. sorted) order, so that two values with permuted but
// logically-equal unordered components produce the same key.
type Keyed interface {
	Key() string
}

// Repository is the capability every interning layer exposes: find an
// existing index, get-or-create one, random access by index, dense
// iteration, and size. Both Store and Overlay implement it, which is what
// lets an Overlay nest over another Overlay (domain -> task -> per-worker
// scope) without the grounder caring which it has.
type Repository[T Keyed] interface {
	Find(data T) (Index[T], bool)
	GetOrCreate(data T) (Index[T], bool)
	At(idx Index[T]) *T
	Len() int
	All() []*T
}

// Store is a single-layer IndexedHashSet: a dense, insertion-ordered
// sequence of values plus a hash index keyed by each value's identifying
// members, so repeated inserts of equal data are deduplicated to the same
// index. Store is safe for concurrent readers; writers (GetOrCreate) are
// serialized by an internal mutex: repositories are append-only and,
// during search, read-only from workers.
type Store[T Keyed] struct {
	mu    sync.RWMutex
	byKey map[string]uint32
	items []*T
}

// NewStore creates an empty interning store for entity kind T.
func NewStore[T Keyed]() *Store[T] {
	return &Store[T]{byKey: make(map[string]uint32)}
}

// Find returns the index of data if already interned.
func (s *Store[T]) Find(data T) (Index[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byKey[data.Key()]
	return Index[T](idx), ok
}

// GetOrCreate interns data, returning its index and whether this call
// performed the insertion (false means data was already present).
func (s *Store[T]) GetOrCreate(data T) (Index[T], bool) {
	key := data.Key()
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx, ok := s.byKey[key]; ok {
		return Index[T](idx), false
	}
	idx := uint32(len(s.items))
	v := data
	s.items = append(s.items, &v)
	s.byKey[key] = idx
	return Index[T](idx), true
}

// At returns a stable pointer to the value at idx. The pointer remains
// valid for the store's lifetime: insertion only appends to s.items,
// never moves or frees an existing element.
func (s *Store[T]) At(idx Index[T]) *T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(idx) >= len(s.items) {
		panic(fmt.Sprintf("intern: index %d out of range (len=%d)", idx, len(s.items)))
	}
	return s.items[idx]
}

// Len reports how many distinct values have been interned.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// All returns the interned values in insertion (= index) order. The
// returned slice is a snapshot; mutating it does not affect the store.
func (s *Store[T]) All() []*T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, len(s.items))
	copy(out, s.items)
	return out
}
