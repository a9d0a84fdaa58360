package search

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/state"
)

// EventHandler observes a search run without influencing its outcome.
// Every method must be non-panicking and must not block indefinitely —
// the search loop calls these synchronously on its own goroutine.
type EventHandler interface {
	OnStart(runID uuid.UUID)
	OnExpand(idx state.StateIndex)
	OnExpandGoal(idx state.StateIndex)
	OnGenerate(parent, child state.StateIndex, via entity.GroundAction)
	OnPrune(idx state.StateIndex)
	OnDeadEnd(idx state.StateIndex)
	OnClose(idx state.StateIndex)
	OnNewFLayer(f float64)
	OnSolved(plan Plan)
	OnUnsolvable()
	OnExhausted()
	OnEnd(result Result)
}

// Stats is a point-in-time snapshot of a search run's counters, taken
// with Snapshot rather than read directly off DefaultEventHandler so a
// caller on another goroutine (e.g. a CLI progress line) never observes
// a torn read.
type Stats struct {
	RunID        uuid.UUID
	NumExpanded  int64
	NumGenerated int64
	NumDeadEnds  int64
	NumPruned    int64
	NumClosed    int64
	SearchTime   time.Duration
}

// DefaultEventHandler is the default statistics-collecting event
// handler: it logs trace lines at debug level so a run is traceable
// without changing search behavior, and exposes a concurrency-safe
// Snapshot for long searches to poll mid-run.
type DefaultEventHandler struct {
	log   *zap.SugaredLogger
	runID uuid.UUID
	start time.Time

	expanded  int64
	generated int64
	deadEnds  int64
	pruned    int64
	closed    int64
}

// NewDefaultEventHandler creates a handler that logs through log (pass
// zap.NewNop().Sugar() to silence tracing entirely).
func NewDefaultEventHandler(log *zap.SugaredLogger) *DefaultEventHandler {
	return &DefaultEventHandler{log: log, runID: uuid.New()}
}

func (h *DefaultEventHandler) OnStart(runID uuid.UUID) {
	h.runID = runID
	h.start = time.Now()
	h.log.Debugw("search start", "run", runID)
}

func (h *DefaultEventHandler) OnExpand(idx state.StateIndex) {
	atomic.AddInt64(&h.expanded, 1)
	h.log.Debugw("expand", "run", h.runID, "state", uint32(idx))
}

func (h *DefaultEventHandler) OnExpandGoal(idx state.StateIndex) {
	h.log.Debugw("expand goal", "run", h.runID, "state", uint32(idx))
}

func (h *DefaultEventHandler) OnGenerate(parent, child state.StateIndex, via entity.GroundAction) {
	atomic.AddInt64(&h.generated, 1)
	h.log.Debugw("generate", "run", h.runID, "parent", uint32(parent), "child", uint32(child))
}

func (h *DefaultEventHandler) OnPrune(idx state.StateIndex) {
	atomic.AddInt64(&h.pruned, 1)
	h.log.Debugw("prune", "run", h.runID, "state", uint32(idx))
}

func (h *DefaultEventHandler) OnDeadEnd(idx state.StateIndex) {
	atomic.AddInt64(&h.deadEnds, 1)
	h.log.Debugw("dead end", "run", h.runID, "state", uint32(idx))
}

func (h *DefaultEventHandler) OnClose(idx state.StateIndex) {
	atomic.AddInt64(&h.closed, 1)
	h.log.Debugw("close", "run", h.runID, "state", uint32(idx))
}

func (h *DefaultEventHandler) OnNewFLayer(f float64) {
	h.log.Debugw("new f layer", "run", h.runID, "f", f)
}

func (h *DefaultEventHandler) OnSolved(plan Plan) {
	h.log.Infow("solved", "run", h.runID, "steps", len(plan.Steps), "cost", plan.Cost)
}

func (h *DefaultEventHandler) OnUnsolvable() {
	h.log.Infow("unsolvable", "run", h.runID)
}

func (h *DefaultEventHandler) OnExhausted() {
	h.log.Infow("exhausted", "run", h.runID)
}

func (h *DefaultEventHandler) OnEnd(result Result) {
	h.log.Debugw("search end", "run", h.runID, "status", result.Status)
}

// Snapshot returns the current counters and elapsed wall time. Safe to
// call concurrently with an in-progress search.
func (h *DefaultEventHandler) Snapshot() Stats {
	return Stats{
		RunID:        h.runID,
		NumExpanded:  atomic.LoadInt64(&h.expanded),
		NumGenerated: atomic.LoadInt64(&h.generated),
		NumDeadEnds:  atomic.LoadInt64(&h.deadEnds),
		NumPruned:    atomic.LoadInt64(&h.pruned),
		NumClosed:    atomic.LoadInt64(&h.closed),
		SearchTime:   time.Since(h.start),
	}
}
