package strategy

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/wesleyorama2/montepi/internal/montecarlo"
	"github.com/wesleyorama2/montepi/internal/montecarlo/metrics"
)

// blocksPerWorker controls the automatic grain: the index range is cut into
// roughly this many blocks per worker so idle workers can pick up slack.
const blocksPerWorker = 8

// StructuredParallel runs the per-sample work as a parallel loop over
// [0, NumPoints).
//
// Instead of fixed chunks, the range is cut into blocks of Grain indices
// that GOMAXPROCS goroutines (or Workers, when set) claim on demand. Every
// index is visited exactly once, so exactly NumPoints samples are recorded.
//
// In shared generator mode each index takes the same coarse critical
// section as the worker pool. In per-worker mode every block owns a
// generator seeded with Seed+blockIndex, so for a fixed Grain the result
// does not depend on which goroutine ran which block.
type StructuredParallel struct {
	config *Config

	startTime time.Time
	elapsed   atomic.Int64
	workers   atomic.Int32
	blocks    atomic.Int32
	grain     atomic.Int32
	recorded  atomic.Int64
	running   atomic.Bool
}

// NewStructuredParallel creates a new structured parallel strategy.
func NewStructuredParallel() *StructuredParallel {
	return &StructuredParallel{}
}

// Type returns the strategy type.
func (e *StructuredParallel) Type() Type {
	return TypeStructuredParallel
}

// Init initializes the strategy with configuration.
func (e *StructuredParallel) Init(ctx context.Context, config *Config) error {
	if config.Type != TypeStructuredParallel {
		return fmt.Errorf("invalid config type: expected %s, got %s", TypeStructuredParallel, config.Type)
	}
	if err := config.Validate(); err != nil {
		return err
	}
	e.config = config
	return nil
}

// Run executes the parallel loop and blocks until every block is recorded.
func (e *StructuredParallel) Run(ctx context.Context, metricsEngine *metrics.Engine) (*montecarlo.SampleStore, error) {
	if e.config == nil {
		return nil, fmt.Errorf("structured parallel strategy not initialized")
	}

	cfg := e.config
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	grain := AutoGrain(cfg.NumPoints, workers, cfg.Grain)
	blocks := numBlocks(cfg.NumPoints, grain)
	if workers > blocks {
		workers = blocks
	}

	e.startTime = time.Now()
	e.workers.Store(int32(workers))
	e.blocks.Store(int32(blocks))
	e.grain.Store(int32(grain))
	e.recorded.Store(0)
	e.running.Store(true)
	defer func() {
		e.elapsed.Store(int64(time.Since(e.startTime)))
		e.running.Store(false)
	}()

	store := montecarlo.NewSampleStore(cfg.NumPoints)

	metricsEngine.SetWorkers(workers)
	metricsEngine.SetPhase(metrics.PhaseSampling)

	recorders := make([]*metrics.Recorder, workers)
	for i := range recorders {
		recorders[i] = metricsEngine.NewRecorder()
	}
	defer func() {
		for _, rec := range recorders {
			metricsEngine.Collect(rec)
		}
	}()

	var body func(ctx context.Context, worker int, b Block) error
	if cfg.EffectiveGenerator() == GeneratorPerWorker {
		body = func(ctx context.Context, worker int, b Block) error {
			return e.runPrivateBlock(ctx, b, store, recorders[worker])
		}
	} else {
		sampler := montecarlo.NewSharedSampler(montecarlo.NewGenerator(cfg.Seed, cfg.Radius), store)
		body = func(ctx context.Context, worker int, b Block) error {
			return e.runSharedBlock(ctx, b, sampler, recorders[worker])
		}
	}

	if err := parallelFor(ctx, cfg.NumPoints, grain, workers, body); err != nil {
		return nil, fmt.Errorf("structured parallel loop failed: %w", err)
	}

	return store, nil
}

func (e *StructuredParallel) runSharedBlock(ctx context.Context, b Block, sampler *montecarlo.SharedSampler, rec *metrics.Recorder) error {
	for i := b.From; i < b.To; i++ {
		if (i-b.From)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		rec.RecordSample(sampler.Sample())
		montecarlo.SpinWait(e.config.SpinWaits)
	}
	e.recorded.Add(int64(b.Len()))
	return nil
}

func (e *StructuredParallel) runPrivateBlock(ctx context.Context, b Block, store *montecarlo.SampleStore, rec *metrics.Recorder) error {
	generator := montecarlo.NewGenerator(e.config.Seed+int64(b.Index), e.config.Radius)
	shard := montecarlo.NewShard(b.Len())

	for i := b.From; i < b.To; i++ {
		if (i-b.From)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		shard.Record(montecarlo.Distance(generator.NextPoint()))
		montecarlo.SpinWait(e.config.SpinWaits)
	}

	shard.FlushTo(store)
	rec.AddSamples(b.Len())
	e.recorded.Add(int64(b.Len()))
	return nil
}

// AutoGrain returns grain when positive, otherwise a block size that gives
// each worker about blocksPerWorker blocks.
func AutoGrain(total, workers, grain int) int {
	if grain > 0 {
		return grain
	}
	if workers <= 0 {
		workers = 1
	}
	g := total / (workers * blocksPerWorker)
	if g < 1 {
		g = 1
	}
	return g
}

// GetProgress returns current progress (0.0 to 1.0).
func (e *StructuredParallel) GetProgress() float64 {
	if e.config == nil {
		return 0.0
	}
	return progress(e.recorded.Load(), int64(e.config.NumPoints))
}

// GetStats returns strategy statistics.
func (e *StructuredParallel) GetStats() *Stats {
	stats := &Stats{
		StartTime: e.startTime,
		Elapsed:   elapsedSince(e.startTime, e.running.Load(), e.elapsed.Load()),
		Workers:   int(e.workers.Load()),
		Blocks:    int(e.blocks.Load()),
		Grain:     int(e.grain.Load()),
		Recorded:  e.recorded.Load(),
	}
	if e.config != nil {
		stats.TargetSamples = int64(e.config.NumPoints)
	}
	return stats
}

// Ensure StructuredParallel implements Strategy
var _ Strategy = (*StructuredParallel)(nil)
