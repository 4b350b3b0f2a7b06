package strategy

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/wesleyorama2/montepi/internal/montecarlo"
	"github.com/wesleyorama2/montepi/internal/montecarlo/metrics"
)

// Serial draws every sample on the calling goroutine.
//
// It is the correctness baseline: for a fixed seed the recorded samples,
// and therefore the estimate, are identical on every run.
type Serial struct {
	config *Config

	startTime time.Time
	elapsed   atomic.Int64
	recorded  atomic.Int64
	running   atomic.Bool
}

// NewSerial creates a new serial strategy.
func NewSerial() *Serial {
	return &Serial{}
}

// Type returns the strategy type.
func (s *Serial) Type() Type {
	return TypeSerial
}

// Init initializes the strategy with configuration.
func (s *Serial) Init(ctx context.Context, config *Config) error {
	if config.Type != TypeSerial {
		return fmt.Errorf("invalid config type: expected %s, got %s", TypeSerial, config.Type)
	}
	if err := config.Validate(); err != nil {
		return err
	}
	s.config = config
	return nil
}

// Run draws NumPoints samples and returns the filled store.
func (s *Serial) Run(ctx context.Context, metricsEngine *metrics.Engine) (*montecarlo.SampleStore, error) {
	if s.config == nil {
		return nil, fmt.Errorf("serial strategy not initialized")
	}

	cfg := s.config
	s.startTime = time.Now()
	s.recorded.Store(0)
	s.running.Store(true)
	defer func() {
		s.elapsed.Store(int64(time.Since(s.startTime)))
		s.running.Store(false)
	}()

	store := montecarlo.NewSampleStore(cfg.NumPoints)
	generator := montecarlo.NewGenerator(cfg.Seed, cfg.Radius)

	metricsEngine.SetWorkers(1)
	metricsEngine.SetPhase(metrics.PhaseSampling)
	rec := metricsEngine.NewRecorder()

	for i := 0; i < cfg.NumPoints; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("serial run cancelled after %d samples: %w", i, err)
			}
			s.recorded.Store(int64(i))
		}

		store.Record(montecarlo.Distance(generator.NextPoint()))
		rec.RecordSample(0)
		montecarlo.SpinWait(cfg.SpinWaits)
	}

	metricsEngine.Collect(rec)
	s.recorded.Store(int64(cfg.NumPoints))
	return store, nil
}

// GetProgress returns current progress (0.0 to 1.0).
func (s *Serial) GetProgress() float64 {
	if s.config == nil {
		return 0.0
	}
	return progress(s.recorded.Load(), int64(s.config.NumPoints))
}

// GetStats returns strategy statistics.
func (s *Serial) GetStats() *Stats {
	stats := &Stats{
		StartTime: s.startTime,
		Elapsed:   elapsedSince(s.startTime, s.running.Load(), s.elapsed.Load()),
		Workers:   1,
		Recorded:  s.recorded.Load(),
	}
	if s.config != nil {
		stats.TargetSamples = int64(s.config.NumPoints)
	}
	return stats
}

func progress(done, target int64) float64 {
	if target <= 0 {
		return 0.0
	}
	p := float64(done) / float64(target)
	if p > 1.0 {
		p = 1.0
	}
	return p
}

func elapsedSince(start time.Time, running bool, final int64) time.Duration {
	if start.IsZero() {
		return 0
	}
	if running {
		return time.Since(start)
	}
	return time.Duration(final)
}

// Ensure Serial implements Strategy
var _ Strategy = (*Serial)(nil)
