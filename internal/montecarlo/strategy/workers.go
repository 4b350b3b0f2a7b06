package strategy

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// runWorkers starts n workers and blocks until all of them have returned.
//
// Workers are not cancelled when a sibling fails; the barrier always waits
// for every worker. Each failure, including a recovered panic, is wrapped in
// a *WorkerError and all of them are joined into the returned error.
func runWorkers(ctx context.Context, n int, work func(ctx context.Context, worker int) error) error {
	var wg sync.WaitGroup
	errs := make([]error, n)

	for w := 0; w < n; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[w] = &WorkerError{Worker: w, Err: &PanicError{Value: r}}
				}
			}()

			if err := work(ctx, w); err != nil {
				errs[w] = &WorkerError{Worker: w, Err: err}
			}
		}(w)
	}

	wg.Wait()
	return errors.Join(errs...)
}

// Block is a contiguous range [From, To) of sample indices.
type Block struct {
	Index int
	From  int
	To    int
}

// Len returns the number of indices in the block.
func (b Block) Len() int {
	return b.To - b.From
}

// parallelFor runs body over [0, total) split into blocks of grain indices.
//
// Up to workers goroutines claim blocks from a shared cursor until none are
// left, so faster workers take on more blocks. The first failing block
// cancels the remaining work and its error is returned after every
// goroutine has exited.
func parallelFor(ctx context.Context, total, grain, workers int, body func(ctx context.Context, worker int, b Block) error) error {
	if total <= 0 {
		return nil
	}
	if grain <= 0 {
		grain = 1
	}
	blocks := numBlocks(total, grain)
	if workers <= 0 {
		workers = 1
	}
	if workers > blocks {
		workers = blocks
	}

	var cursor atomic.Int64
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &WorkerError{Worker: w, Err: &PanicError{Value: r}}
				}
			}()

			for {
				idx := int(cursor.Add(1) - 1)
				if idx >= blocks {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}

				from := idx * grain
				to := min(from+grain, total)
				if err := body(gctx, w, Block{Index: idx, From: from, To: to}); err != nil {
					return &WorkerError{Worker: w, Err: err}
				}
			}
		})
	}

	return g.Wait()
}

func numBlocks(total, grain int) int {
	return (total + grain - 1) / grain
}

// PlanChunks splits total samples across workers.
//
// With RemainderTruncate every worker gets floor(total/workers) samples and
// total%workers samples are never drawn. With RemainderLastWorker the last
// worker also takes the remainder so the chunks sum to total.
func PlanChunks(total, workers int, policy RemainderPolicy) []int {
	if workers <= 0 {
		return nil
	}
	per := total / workers
	chunks := make([]int, workers)
	for i := range chunks {
		chunks[i] = per
	}
	if policy == RemainderLastWorker {
		chunks[workers-1] += total % workers
	}
	return chunks
}
