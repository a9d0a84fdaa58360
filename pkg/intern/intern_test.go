package intern

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type label string

func (l label) Key() string { return string(l) }

func TestStoreDeduplicatesByKey(t *testing.T) {
	s := NewStore[label]()

	idx1, inserted1 := s.GetOrCreate("alpha")
	assert.True(t, inserted1)
	idx2, inserted2 := s.GetOrCreate("alpha")
	assert.False(t, inserted2)
	assert.Equal(t, idx1, idx2)

	idx3, inserted3 := s.GetOrCreate("beta")
	assert.True(t, inserted3)
	assert.NotEqual(t, idx1, idx3)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, label("alpha"), *s.At(idx1))
	assert.Equal(t, label("beta"), *s.At(idx3))

	found, ok := s.Find("alpha")
	require.True(t, ok)
	assert.Equal(t, idx1, found)

	_, ok = s.Find("gamma")
	assert.False(t, ok)
}

func TestStoreAtPanicsOutOfRange(t *testing.T) {
	s := NewStore[label]()
	s.GetOrCreate("only")
	assert.Panics(t, func() { s.At(Index[label](5)) })
}

func TestStoreAllPreservesInsertionOrder(t *testing.T) {
	s := NewStore[label]()
	for _, v := range []label{"a", "b", "c"} {
		s.GetOrCreate(v)
	}
	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, label("a"), *all[0])
	assert.Equal(t, label("b"), *all[1])
	assert.Equal(t, label("c"), *all[2])
}

func TestOverlayFindsParentBeforeLocal(t *testing.T) {
	parent := NewStore[label]()
	parentIdx, _ := parent.GetOrCreate("shared")

	overlay := NewOverlay[label](parent)
	found, ok := overlay.Find("shared")
	require.True(t, ok)
	assert.Equal(t, parentIdx, found)

	localIdx, inserted := overlay.GetOrCreate("local-only")
	assert.True(t, inserted)
	assert.GreaterOrEqual(t, uint32(localIdx), uint32(parent.Len()))
	assert.Equal(t, label("local-only"), *overlay.At(localIdx))
}

func TestOverlayGetOrCreateDoesNotDuplicateParentEntry(t *testing.T) {
	parent := NewStore[label]()
	parentIdx, _ := parent.GetOrCreate("shared")

	overlay := NewOverlay[label](parent)
	idx, inserted := overlay.GetOrCreate("shared")
	assert.False(t, inserted)
	assert.Equal(t, parentIdx, idx)
	assert.Equal(t, 1, overlay.Len(), "parent entry must not be re-inserted into the local store")
}

func TestOverlayLenAndAllCombineBothLayers(t *testing.T) {
	parent := NewStore[label]()
	parent.GetOrCreate("p1")
	parent.GetOrCreate("p2")

	overlay := NewOverlay[label](parent)
	overlay.GetOrCreate("o1")

	assert.Equal(t, 3, overlay.Len())
	all := overlay.All()
	require.Len(t, all, 3)
	assert.Equal(t, label("p1"), *all[0])
	assert.Equal(t, label("p2"), *all[1])
	assert.Equal(t, label("o1"), *all[2])
}

func TestNestedOverlaysDispatchAcrossLayers(t *testing.T) {
	domain := NewStore[label]()
	domain.GetOrCreate("domain-fact")

	task := NewOverlay[label](domain)
	task.GetOrCreate("task-fact")

	worker := NewOverlay[label](task)
	workerIdx, _ := worker.GetOrCreate("worker-fact")

	assert.Equal(t, label("worker-fact"), *worker.At(workerIdx))
	domainFound, ok := worker.Find("domain-fact")
	require.True(t, ok)
	assert.Equal(t, label("domain-fact"), *worker.At(domainFound))

	for i := 0; i < 3; i++ {
		v := fmt.Sprintf("extra-%d", i)
		worker.GetOrCreate(label(v))
	}
	assert.Equal(t, 6, worker.Len())
}
