package strategy

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/wesleyorama2/montepi/internal/montecarlo"
	"github.com/wesleyorama2/montepi/internal/montecarlo/metrics"
)

// WorkerPool splits the samples into one fixed chunk per worker.
//
// The pool starts WorkerMultiplier x AvailableParallelism() workers (or
// Workers, when set). Each worker draws calcsPerWorker = NumPoints/workers
// samples; with the default truncate policy the remainder is never drawn.
//
// In shared generator mode every sample passes through one SharedSampler,
// so only the SpinWait work actually runs in parallel. In per-worker mode
// worker i owns a generator seeded with Seed+i and a private shard that is
// flushed to the store once, which makes the result independent of
// scheduling.
type WorkerPool struct {
	config *Config

	startTime time.Time
	elapsed   atomic.Int64
	workers   atomic.Int32
	target    atomic.Int64
	recorded  atomic.Int64
	running   atomic.Bool
}

// NewWorkerPool creates a new worker pool strategy.
func NewWorkerPool() *WorkerPool {
	return &WorkerPool{}
}

// Type returns the strategy type.
func (e *WorkerPool) Type() Type {
	return TypeWorkerPool
}

// Init initializes the strategy with configuration.
func (e *WorkerPool) Init(ctx context.Context, config *Config) error {
	if config.Type != TypeWorkerPool {
		return fmt.Errorf("invalid config type: expected %s, got %s", TypeWorkerPool, config.Type)
	}
	if err := config.Validate(); err != nil {
		return err
	}
	e.config = config
	return nil
}

// Run starts the workers and blocks until every one of them has finished.
func (e *WorkerPool) Run(ctx context.Context, metricsEngine *metrics.Engine) (*montecarlo.SampleStore, error) {
	if e.config == nil {
		return nil, fmt.Errorf("worker pool strategy not initialized")
	}

	cfg := e.config
	numWorkers := resolveWorkers(cfg.Workers, cfg.WorkerMultiplier)
	chunks := PlanChunks(cfg.NumPoints, numWorkers, cfg.EffectiveRemainder())

	var total int
	for _, c := range chunks {
		total += c
	}

	e.startTime = time.Now()
	e.workers.Store(int32(numWorkers))
	e.target.Store(int64(total))
	e.recorded.Store(0)
	e.running.Store(true)
	defer func() {
		e.elapsed.Store(int64(time.Since(e.startTime)))
		e.running.Store(false)
	}()

	store := montecarlo.NewSampleStore(total)

	metricsEngine.SetWorkers(numWorkers)
	metricsEngine.SetPhase(metrics.PhaseSampling)

	var work func(ctx context.Context, worker int) error
	if cfg.EffectiveGenerator() == GeneratorPerWorker {
		work = func(ctx context.Context, worker int) error {
			return e.runPrivateWorker(ctx, worker, chunks[worker], store, metricsEngine)
		}
	} else {
		sampler := montecarlo.NewSharedSampler(montecarlo.NewGenerator(cfg.Seed, cfg.Radius), store)
		work = func(ctx context.Context, worker int) error {
			return e.runSharedWorker(ctx, chunks[worker], sampler, metricsEngine)
		}
	}

	if err := runWorkers(ctx, numWorkers, work); err != nil {
		return nil, fmt.Errorf("worker pool failed: %w", err)
	}

	return store, nil
}

// runSharedWorker draws its chunk through the shared sampler lock.
func (e *WorkerPool) runSharedWorker(ctx context.Context, chunk int, sampler *montecarlo.SharedSampler, metricsEngine *metrics.Engine) error {
	rec := metricsEngine.NewRecorder()
	defer metricsEngine.Collect(rec)

	for i := 0; i < chunk; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		rec.RecordSample(sampler.Sample())
		montecarlo.SpinWait(e.config.SpinWaits)
		e.recorded.Add(1)
	}
	return nil
}

// runPrivateWorker draws its chunk from a worker-owned generator.
func (e *WorkerPool) runPrivateWorker(ctx context.Context, worker, chunk int, store *montecarlo.SampleStore, metricsEngine *metrics.Engine) error {
	rec := metricsEngine.NewRecorder()
	defer metricsEngine.Collect(rec)

	generator := montecarlo.NewGenerator(e.config.Seed+int64(worker), e.config.Radius)
	shard := montecarlo.NewShard(chunk)

	for i := 0; i < chunk; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		shard.Record(montecarlo.Distance(generator.NextPoint()))
		montecarlo.SpinWait(e.config.SpinWaits)
	}

	shard.FlushTo(store)
	rec.AddSamples(chunk)
	e.recorded.Add(int64(chunk))
	return nil
}

// GetProgress returns current progress (0.0 to 1.0).
func (e *WorkerPool) GetProgress() float64 {
	return progress(e.recorded.Load(), e.target.Load())
}

// GetStats returns strategy statistics.
func (e *WorkerPool) GetStats() *Stats {
	return &Stats{
		StartTime:     e.startTime,
		Elapsed:       elapsedSince(e.startTime, e.running.Load(), e.elapsed.Load()),
		Workers:       int(e.workers.Load()),
		TargetSamples: e.target.Load(),
		Recorded:      e.recorded.Load(),
	}
}

// Ensure WorkerPool implements Strategy
var _ Strategy = (*WorkerPool)(nil)
