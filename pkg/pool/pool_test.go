package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type counter struct {
	value int
}

func (c *counter) Reset() { c.value = 0 }

func TestAcquireResetsValue(t *testing.T) {
	p := New(func() *counter { return &counter{} })

	h := p.Acquire()
	h.Get().value = 7
	h.Drop()

	h2 := p.Acquire()
	assert.Equal(t, 0, h2.Get().value, "a reacquired object must come back reset")
}

func TestAcquireReusesFreedEntry(t *testing.T) {
	p := New(func() *counter { return &counter{} })

	h := p.Acquire()
	obj := h.Get()
	h.Drop()

	h2 := p.Acquire()
	assert.Same(t, obj, h2.Get(), "dropping to refcount zero must return the entry to the free stack for reuse")
}

func TestCloneSharesUnderlyingObjectUntilLastDrop(t *testing.T) {
	p := New(func() *counter { return &counter{} })

	h := p.Acquire()
	h.Get().value = 42
	clone := h.Clone()

	h.Drop()
	assert.Equal(t, 42, clone.Get().value, "the object must survive as long as any clone holds a reference")

	clone.Drop()
}

func TestDropOnZeroPtrIsNoop(t *testing.T) {
	var h Ptr[counter]
	assert.NotPanics(t, func() { h.Drop() })
}

func TestGetOnDroppedPtrPanics(t *testing.T) {
	p := New(func() *counter { return &counter{} })
	h := p.Acquire()
	h.Drop()
	assert.Panics(t, func() { h.Get() })
}
