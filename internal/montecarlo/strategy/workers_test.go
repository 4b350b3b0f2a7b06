package strategy

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestPlanChunks(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		workers int
		policy  RemainderPolicy
		want    []int
	}{
		{name: "even", total: 12, workers: 4, policy: RemainderTruncate, want: []int{3, 3, 3, 3}},
		{name: "truncate", total: 14, workers: 4, policy: RemainderTruncate, want: []int{3, 3, 3, 3}},
		{name: "last worker", total: 14, workers: 4, policy: RemainderLastWorker, want: []int{3, 3, 3, 5}},
		{name: "more workers than points", total: 3, workers: 4, policy: RemainderTruncate, want: []int{0, 0, 0, 0}},
		{name: "no workers", total: 3, workers: 0, policy: RemainderTruncate, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanChunks(tt.total, tt.workers, tt.policy)
			if len(got) != len(tt.want) {
				t.Fatalf("PlanChunks() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("PlanChunks() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestRunWorkers_Barrier(t *testing.T) {
	var finished atomic.Int32

	err := runWorkers(context.Background(), 16, func(ctx context.Context, worker int) error {
		finished.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("runWorkers() error = %v", err)
	}
	if finished.Load() != 16 {
		t.Errorf("finished = %d, want 16", finished.Load())
	}
}

func TestRunWorkers_JoinsAllFailures(t *testing.T) {
	boom := errors.New("boom")
	var finished atomic.Int32

	err := runWorkers(context.Background(), 6, func(ctx context.Context, worker int) error {
		defer finished.Add(1)
		switch worker {
		case 1:
			return boom
		case 4:
			panic("worker exploded")
		}
		return nil
	})

	if finished.Load() != 6 {
		t.Errorf("finished = %d, want every worker to complete", finished.Load())
	}
	if !errors.Is(err, boom) {
		t.Errorf("runWorkers() error = %v, want it to wrap boom", err)
	}

	var perr *PanicError
	if !errors.As(err, &perr) {
		t.Fatalf("runWorkers() error = %v, want a *PanicError", err)
	}
	if perr.Value != "worker exploded" {
		t.Errorf("PanicError.Value = %v, want %q", perr.Value, "worker exploded")
	}

	var werr *WorkerError
	if !errors.As(err, &werr) {
		t.Fatalf("runWorkers() error = %v, want a *WorkerError", err)
	}
}

func TestParallelFor_VisitsEveryIndexOnce(t *testing.T) {
	const total = 1003
	seen := make([]int32, total)

	err := parallelFor(context.Background(), total, 10, 7, func(ctx context.Context, worker int, b Block) error {
		for i := b.From; i < b.To; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("parallelFor() error = %v", err)
	}

	for i, n := range seen {
		if n != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, n)
		}
	}
}

func TestParallelFor_FirstErrorCancels(t *testing.T) {
	boom := errors.New("block failed")
	var mu sync.Mutex
	var ran []int

	err := parallelFor(context.Background(), 1000, 1, 1, func(ctx context.Context, worker int, b Block) error {
		mu.Lock()
		ran = append(ran, b.Index)
		mu.Unlock()
		if b.Index == 5 {
			return boom
		}
		return nil
	})

	if !errors.Is(err, boom) {
		t.Fatalf("parallelFor() error = %v, want boom", err)
	}
	if len(ran) != 6 {
		t.Errorf("blocks run = %d, want 6 (no block after the failure)", len(ran))
	}
}

func TestParallelFor_RecoversPanic(t *testing.T) {
	err := parallelFor(context.Background(), 10, 1, 3, func(ctx context.Context, worker int, b Block) error {
		if b.Index == 2 {
			panic("bad block")
		}
		return nil
	})

	var perr *PanicError
	if !errors.As(err, &perr) {
		t.Fatalf("parallelFor() error = %v, want *PanicError", err)
	}
}

func TestParallelFor_Empty(t *testing.T) {
	called := false
	err := parallelFor(context.Background(), 0, 10, 4, func(ctx context.Context, worker int, b Block) error {
		called = true
		return nil
	})
	if err != nil || called {
		t.Errorf("parallelFor(0) error = %v, called = %v", err, called)
	}
}

func TestAutoGrain(t *testing.T) {
	tests := []struct {
		total, workers, grain, want int
	}{
		{total: 10000, workers: 4, grain: 0, want: 312},
		{total: 10000, workers: 4, grain: 50, want: 50},
		{total: 5, workers: 8, grain: 0, want: 1},
		{total: 100, workers: 0, grain: 0, want: 12},
	}

	for _, tt := range tests {
		if got := AutoGrain(tt.total, tt.workers, tt.grain); got != tt.want {
			t.Errorf("AutoGrain(%d, %d, %d) = %d, want %d", tt.total, tt.workers, tt.grain, got, tt.want)
		}
	}
}

func TestResolveWorkers(t *testing.T) {
	if got := resolveWorkers(5, 2); got != 5 {
		t.Errorf("resolveWorkers(5, 2) = %d, want 5", got)
	}
	if got := resolveWorkers(0, 3); got != 3*AvailableParallelism() {
		t.Errorf("resolveWorkers(0, 3) = %d, want %d", got, 3*AvailableParallelism())
	}
	if got := resolveWorkers(0, 0); got != DefaultWorkerMultiplier*AvailableParallelism() {
		t.Errorf("resolveWorkers(0, 0) = %d, want %d", got, DefaultWorkerMultiplier*AvailableParallelism())
	}
}
