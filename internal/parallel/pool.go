// Package parallel runs rule and axiom grounding fan-out across a bounded
// set of goroutines: one task per rule (or per stratum partition), with a
// concurrency cap and a serialized commit barrier so the caller merges
// each task's locally-discovered facts into the shared fact tables once,
// rather than taking a lock on every single insertion.
package parallel

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Pool bounds how many grounding tasks run concurrently and accumulates
// execution statistics across every Run call made against it.
type Pool struct {
	concurrency int
	stats       Stats
}

// New creates a pool that runs up to concurrency tasks at once. A
// non-positive concurrency means unbounded.
func New(concurrency int) *Pool {
	return &Pool{concurrency: concurrency}
}

// Task is one unit of grounding work: produce a batch of newly discovered
// facts without touching shared state directly.
type Task[T any] func(ctx context.Context) (T, error)

// Run executes every task concurrently, bounded by the pool's
// concurrency, waits for all of them, then calls commit exactly once with
// every task's result in task order. This is the fork/join step rule
// grounding uses per stratum iteration: ground every rule of the stratum
// in parallel against a read-only snapshot of the fact tables, then
// commit the union of newly discovered ground atoms before the next
// iteration reads them. If any task errors, Run returns that error
// without calling commit.
func Run[T any](ctx context.Context, p *Pool, tasks []Task[T], commit func([]T) error) error {
	start := time.Now()
	results := make([]T, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	if p.concurrency > 0 {
		g.SetLimit(p.concurrency)
	}

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			p.stats.recordSubmitted()
			taskStart := time.Now()
			result, err := task(gctx)
			if err != nil {
				p.stats.recordFailed()
				return err
			}
			results[i] = result
			p.stats.recordCompleted(time.Since(taskStart))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	p.stats.recordWall(time.Since(start))
	return commit(results)
}

// Stats returns a snapshot of this pool's cumulative execution statistics
// since creation.
func (p *Pool) Stats() Stats {
	p.stats.mu.Lock()
	defer p.stats.mu.Unlock()
	return Stats{
		TasksSubmitted: p.stats.TasksSubmitted,
		TasksCompleted: p.stats.TasksCompleted,
		TasksFailed:    p.stats.TasksFailed,
		TotalTaskTime:  p.stats.TotalTaskTime,
		TotalWallTime:  p.stats.TotalWallTime,
	}
}

// Stats is a grounding pool's execution-statistics snapshot, returned by
// Pool.Stats. It is
// deliberately smaller than a long-lived service pool's telemetry would
// need — no worker scaling, no queue-depth history — since a planner run
// grounds a fixed, known rule set rather than an open-ended task stream.
type Stats struct {
	mu sync.Mutex

	TasksSubmitted int64
	TasksCompleted int64
	TasksFailed    int64
	TotalTaskTime  time.Duration
	TotalWallTime  time.Duration
}

func (s *Stats) recordSubmitted() {
	s.mu.Lock()
	s.TasksSubmitted++
	s.mu.Unlock()
}

func (s *Stats) recordCompleted(d time.Duration) {
	s.mu.Lock()
	s.TasksCompleted++
	s.TotalTaskTime += d
	s.mu.Unlock()
}

func (s *Stats) recordFailed() {
	s.mu.Lock()
	s.TasksFailed++
	s.mu.Unlock()
}

func (s *Stats) recordWall(d time.Duration) {
	s.mu.Lock()
	s.TotalWallTime += d
	s.mu.Unlock()
}
