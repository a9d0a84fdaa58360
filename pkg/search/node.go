package search

import (
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/state"
)

// Status is a search node's membership in the open/closed/dead-end
// partition, densely indexed by state.StateIndex alongside g-value and
// parent so the node table never allocates per node.
type Status uint8

const (
	New Status = iota
	Open
	Closed
	Goal
	DeadEnd
)

// Node is one entry of the node table: its current best cost from the
// root, the action and predecessor state that achieved that cost, and
// its current partition membership.
type Node struct {
	GValue    float64
	Parent    state.StateIndex
	ParentSet bool
	Via       entity.GroundAction
	Status    Status
}

// Table is a dense, StateIndex-indexed array of Node, growing on demand.
// A state never seen before reads back the zero Node, whose Status is
// New.
type Table struct {
	nodes []Node
}

// NewTable creates an empty node table.
func NewTable() *Table {
	return &Table{}
}

func (t *Table) ensure(idx state.StateIndex) {
	n := int(idx) + 1
	if n <= len(t.nodes) {
		return
	}
	grown := make([]Node, n)
	copy(grown, t.nodes)
	t.nodes = grown
}

// Get returns the node recorded for idx, or the zero (Status New) node if
// idx has never been touched.
func (t *Table) Get(idx state.StateIndex) Node {
	if int(idx) >= len(t.nodes) {
		return Node{}
	}
	return t.nodes[idx]
}

// Set overwrites the node recorded for idx.
func (t *Table) Set(idx state.StateIndex, n Node) {
	t.ensure(idx)
	t.nodes[idx] = n
}
