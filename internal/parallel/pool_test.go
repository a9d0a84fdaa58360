package parallel

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunCollectsResultsInOrder(t *testing.T) {
	pool := New(4)
	tasks := make([]Task[int], 10)
	for i := range tasks {
		i := i
		tasks[i] = func(ctx context.Context) (int, error) {
			return i * i, nil
		}
	}

	var committed []int
	err := Run(context.Background(), pool, tasks, func(results []int) error {
		committed = append([]int(nil), results...)
		return nil
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for i, v := range committed {
		if v != i*i {
			t.Errorf("result[%d] = %d, want %d", i, v, i*i)
		}
	}

	stats := pool.Stats()
	if stats.TasksSubmitted != 10 || stats.TasksCompleted != 10 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestRunPropagatesTaskError(t *testing.T) {
	pool := New(2)
	wantErr := errors.New("grounding failed")
	tasks := []Task[int]{
		func(ctx context.Context) (int, error) { return 1, nil },
		func(ctx context.Context) (int, error) { return 0, wantErr },
	}

	committed := false
	err := Run(context.Background(), pool, tasks, func(results []int) error {
		committed = true
		return nil
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Run() error = %v, want %v", err, wantErr)
	}
	if committed {
		t.Error("commit must not run when a task fails")
	}
}

func TestRunRespectsContextCancellation(t *testing.T) {
	pool := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := []Task[int]{
		func(ctx context.Context) (int, error) {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(time.Second):
				return 1, nil
			}
		},
	}
	err := Run(ctx, pool, tasks, func(results []int) error { return nil })
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
}

func TestRunWithUnboundedConcurrency(t *testing.T) {
	pool := New(0)
	tasks := make([]Task[int], 50)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) (int, error) { return 1, nil }
	}
	sum := 0
	err := Run(context.Background(), pool, tasks, func(results []int) error {
		for _, v := range results {
			sum += v
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if sum != 50 {
		t.Errorf("sum = %d, want 50", sum)
	}
}
