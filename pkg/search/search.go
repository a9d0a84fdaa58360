// Package search implements generic best-first search (A★ and greedy
// best-first) over the successor generator (package successor) and
// action executor (package executor), with a densely indexed node
// table, a deterministic open list (package search's OpenList),
// budget-based cancellation, and an observable event handler.
package search

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/executor"
	"github.com/gokanplan/gokanplan/pkg/grounder"
	"github.com/gokanplan/gokanplan/pkg/pool"
	"github.com/gokanplan/gokanplan/pkg/state"
	"github.com/gokanplan/gokanplan/pkg/successor"
)

// Algorithm selects the open list's ordering key.
type Algorithm int

const (
	// AStar orders by (g+h, g): optimal when h never overestimates.
	AStar Algorithm = iota
	// GBFS orders by (h, g): greedy, not guaranteed optimal, usually faster.
	GBFS
)

// Status is the outcome tag of a completed search: Solved, Unsolvable,
// Exhausted, OutOfTime, or OutOfStates.
type Status int

const (
	Solved Status = iota
	Unsolvable
	Exhausted
	OutOfTime
	OutOfStates
)

func (s Status) String() string {
	switch s {
	case Solved:
		return "solved"
	case Unsolvable:
		return "unsolvable"
	case Exhausted:
		return "exhausted"
	case OutOfTime:
		return "out_of_time"
	case OutOfStates:
		return "out_of_states"
	default:
		return "unknown"
	}
}

// Step is one labelled transition of a plan: the ground action taken and
// the state it produced.
type Step struct {
	Action entity.GroundAction
	State  state.StateIndex
}

// Plan is the root state plus the sequence of steps that reaches a goal.
// Cost is the final node's g-value, which counts one per action; the
// task's metric expression is not evaluated. Length is len(Steps). Both
// are zero for an initial state that is already a goal.
type Plan struct {
	Initial state.StateIndex
	Steps   []Step
	Cost    float64
}

// Result is the outcome of a completed search run.
type Result struct {
	Status Status
	Plan   Plan
}

// Budgets bounds a search run: MaxStates caps the number of distinct
// states registered, MaxTime caps wall-clock duration. Zero means
// unbounded.
type Budgets struct {
	MaxStates int
	MaxTime   time.Duration
}

// Config bundles everything one search run needs beyond the task itself.
type Config struct {
	Algorithm    Algorithm
	Heuristic    Heuristic
	EventHandler EventHandler
	Budgets      Budgets
}

// isGoal reports whether the state behind view satisfies goal. It grounds
// and checks goal fresh against the view's live facts via Holds rather
// than a precomputed GroundConjunctiveCondition: a goal has no
// parameters, so there is exactly one binding to check, and Holds (unlike
// Verify) does not trust a consistency graph that was never built for it.
func isGoal(exec *executor.Context, view *successor.StateView, goal entity.ConjunctiveCondition) bool {
	gctx := &grounder.Context{Repo: exec.Repo, Facts: view.Facts(exec.Statics)}
	return gctx.Holds(goal, entity.Binding{})
}

// staticallyUnreachable reports whether goal contains a positive static
// literal whose ground atom was never interned: static facts never change
// during search, so if pre-search grounding never discovered this one, no
// state reachable from initial can ever satisfy it either, and the run
// can be declared Unsolvable before expanding a single node.
func staticallyUnreachable(exec *executor.Context, goal entity.ConjunctiveCondition) bool {
	for _, lit := range goal.StaticLiterals {
		if !lit.Positive {
			continue
		}
		atom := *exec.Repo.Atoms.At(lit.Atom)
		args := make(entity.Binding, len(atom.Terms))
		for i, t := range atom.Terms {
			args[i] = t.Object
		}
		if _, found := exec.Repo.GroundAtoms.Find(atom.Predicate, args); !found {
			return true
		}
	}
	return false
}

// Run executes a single best-first search from initial over exec's task,
// against goal, per cfg. It is single-threaded and cooperative: every
// loop iteration checks ctx, then the wall-clock and state budgets,
// before doing any work, so cancellation and OutOfTime/OutOfStates are
// always observed promptly.
func Run(ctx context.Context, exec *executor.Context, initial state.StateIndex, initialState *state.Unpacked, goal entity.ConjunctiveCondition, cfg Config) Result {
	handler := cfg.EventHandler
	if handler == nil {
		handler = &noopHandler{}
	}
	heuristic := cfg.Heuristic
	if heuristic == nil {
		heuristic = Blind{}
	}
	heuristic.SetGoal(exec.Repo, goal)

	runID := uuid.New()
	handler.OnStart(runID)

	if staticallyUnreachable(exec, goal) {
		handler.OnUnsolvable()
		result := Result{Status: Unsolvable}
		handler.OnEnd(result)
		return result
	}

	deadline := time.Time{}
	if cfg.Budgets.MaxTime > 0 {
		deadline = time.Now().Add(cfg.Budgets.MaxTime)
	}

	table := NewTable()
	open := NewOpenList()
	numStates := 1

	rootH := heuristic.Evaluate(initialState)
	if rootH == math.Inf(1) {
		handler.OnUnsolvable()
		result := Result{Status: Unsolvable}
		handler.OnEnd(result)
		return result
	}
	table.Set(initial, Node{GValue: 0, Status: Open})
	open.Push(initial, orderKey(cfg.Algorithm, 0, rootH), 0)

	// views and handles are cached per state across the run so the
	// pooled Unpacked for a given StateIndex is decoded at most once;
	// handles are dropped together on every return path so a completed
	// or aborted run never leaves a state checked out of the pool.
	views := map[state.StateIndex]*state.Unpacked{initial: initialState}
	handles := map[state.StateIndex]pool.Ptr[state.Unpacked]{}
	defer func() {
		for _, h := range handles {
			h.Drop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			result := Result{Status: OutOfTime}
			handler.OnEnd(result)
			return result
		default:
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			result := Result{Status: OutOfTime}
			handler.OnEnd(result)
			return result
		}
		if cfg.Budgets.MaxStates > 0 && numStates > cfg.Budgets.MaxStates {
			result := Result{Status: OutOfStates}
			handler.OnEnd(result)
			return result
		}

		curIdx, ok := open.Pop()
		if !ok {
			handler.OnExhausted()
			result := Result{Status: Exhausted}
			handler.OnEnd(result)
			return result
		}
		cur := table.Get(curIdx)
		if cur.Status == Closed || cur.Status == DeadEnd {
			continue
		}

		curState := views[curIdx]
		curView := &successor.StateView{Repo: exec.Repo, Indexer: exec.Indexer, State: curState}
		if isGoal(exec, curView, goal) {
			handler.OnExpandGoal(curIdx)
			plan := extractPlan(table, curIdx, initial)
			cur.Status = Goal
			table.Set(curIdx, cur)
			result := Result{Status: Solved, Plan: plan}
			handler.OnSolved(plan)
			handler.OnEnd(result)
			return result
		}

		handler.OnExpand(curIdx)
		cur.Status = Closed
		table.Set(curIdx, cur)
		handler.OnClose(curIdx)

		successor.Candidates(exec.Repo, exec.Task, curView, exec.Statics, func(ga entity.GroundAction) bool {
			childIdx, childHandle, _ := exec.Apply(ga, curView)
			childState := childHandle.Get()
			if _, seen := views[childIdx]; !seen {
				numStates++
				views[childIdx] = childState
				handles[childIdx] = childHandle
			} else {
				childHandle.Drop()
			}

			handler.OnGenerate(curIdx, childIdx, ga)
			childNode := table.Get(childIdx)
			newG := cur.GValue + 1

			if childNode.Status == New {
				h := heuristic.Evaluate(views[childIdx])
				if h == math.Inf(1) {
					childNode.Status = DeadEnd
					table.Set(childIdx, childNode)
					handler.OnDeadEnd(childIdx)
					return true
				}
				childNode.GValue = newG
				childNode.Parent = curIdx
				childNode.ParentSet = true
				childNode.Via = ga
				childNode.Status = Open
				table.Set(childIdx, childNode)
				open.Push(childIdx, orderKey(cfg.Algorithm, newG, h), newG)
				return true
			}

			if childNode.Status == DeadEnd {
				handler.OnPrune(childIdx)
				return true
			}
			if newG < childNode.GValue {
				childNode.GValue = newG
				childNode.Parent = curIdx
				childNode.ParentSet = true
				childNode.Via = ga
				if childNode.Status == Closed {
					childNode.Status = Open
				}
				table.Set(childIdx, childNode)
				h := heuristic.Evaluate(views[childIdx])
				open.Push(childIdx, orderKey(cfg.Algorithm, newG, h), newG)
			}
			return true
		})
	}
}

func orderKey(alg Algorithm, g, h float64) float64 {
	if alg == GBFS {
		return h
	}
	return g + h
}

// extractPlan walks the node table's parent chain from goalIdx back to
// root, then reverses it into forward order.
func extractPlan(table *Table, goalIdx, root state.StateIndex) Plan {
	var steps []Step
	cur := goalIdx
	cost := table.Get(goalIdx).GValue
	for cur != root {
		n := table.Get(cur)
		steps = append(steps, Step{Action: n.Via, State: cur})
		if !n.ParentSet {
			break
		}
		cur = n.Parent
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return Plan{Initial: root, Steps: steps, Cost: cost}
}

type noopHandler struct{}

func (noopHandler) OnStart(uuid.UUID)             {}
func (noopHandler) OnExpand(state.StateIndex)     {}
func (noopHandler) OnExpandGoal(state.StateIndex) {}
func (noopHandler) OnGenerate(state.StateIndex, state.StateIndex, entity.GroundAction) {
}
func (noopHandler) OnPrune(state.StateIndex)   {}
func (noopHandler) OnDeadEnd(state.StateIndex) {}
func (noopHandler) OnClose(state.StateIndex)   {}
func (noopHandler) OnNewFLayer(float64)        {}
func (noopHandler) OnSolved(Plan)              {}
func (noopHandler) OnUnsolvable()              {}
func (noopHandler) OnExhausted()               {}
func (noopHandler) OnEnd(Result)               {}
