package search

import (
	"container/heap"

	"github.com/gokanplan/gokanplan/pkg/state"
)

// No ecosystem priority-queue library appears anywhere in the example
// pack; container/heap is the idiomatic, zero-dependency way every Go
// program implements an open list, so this stays on the standard library
// (see DESIGN.md).

// entry is one open-list item: a candidate state ordered by (primary,
// secondary) key, with insertion order as the final tie-break so that
// two runs over the same input pop states in the same order.
type entry struct {
	state     state.StateIndex
	primary   float64
	secondary float64
	seq       int
}

type openList []entry

func (q openList) Len() int { return len(q) }

func (q openList) Less(i, j int) bool {
	if q[i].primary != q[j].primary {
		return q[i].primary < q[j].primary
	}
	if q[i].secondary != q[j].secondary {
		return q[i].secondary < q[j].secondary
	}
	return q[i].seq < q[j].seq
}

func (q openList) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *openList) Push(x any) { *q = append(*q, x.(entry)) }

func (q *openList) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// OpenList is a priority queue of candidate states keyed by (primary,
// secondary, insertion step). A★ keys by (f, g); GBFS keys by (h, g),
// both falling back to insertion order, which is what keeps the search
// deterministic across repeated runs on the same input.
type OpenList struct {
	items openList
	seq   int
}

// NewOpenList creates an empty open list.
func NewOpenList() *OpenList {
	ol := &OpenList{}
	heap.Init(&ol.items)
	return ol
}

// Push inserts idx with the given primary/secondary ordering keys.
func (ol *OpenList) Push(idx state.StateIndex, primary, secondary float64) {
	heap.Push(&ol.items, entry{state: idx, primary: primary, secondary: secondary, seq: ol.seq})
	ol.seq++
}

// Pop removes and returns the minimum entry. Its second return is false
// if the list is empty.
func (ol *OpenList) Pop() (state.StateIndex, bool) {
	if ol.items.Len() == 0 {
		return 0, false
	}
	e := heap.Pop(&ol.items).(entry)
	return e.state, true
}

// Len reports the number of entries currently queued.
func (ol *OpenList) Len() int { return ol.items.Len() }
