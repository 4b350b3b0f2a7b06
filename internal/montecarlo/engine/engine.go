// Package engine turns strategy runs into PI estimates.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/wesleyorama2/montepi/internal/montecarlo/config"
	"github.com/wesleyorama2/montepi/internal/montecarlo/metrics"
	"github.com/wesleyorama2/montepi/internal/montecarlo/strategy"
)

// Result is the outcome of one strategy run.
type Result struct {
	Strategy strategy.Type `json:"strategy"`
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`

	// Config is the strategy configuration the run used.
	Config *strategy.Config `json:"config"`

	NumPoints int     `json:"numPoints"`
	Recorded  int     `json:"recorded"`
	Inside    int     `json:"inside"`
	Pi        float64 `json:"pi"`

	// Deviation is |Pi - math.Pi|.
	Deviation float64 `json:"deviation"`

	Workers int               `json:"workers"`
	Stats   *strategy.Stats   `json:"stats,omitempty"`
	Metrics *metrics.Snapshot `json:"metrics,omitempty"`
}

// Ratio computes the estimate 4 * inside / numPoints.
//
// The denominator is the configured sample count, not the recorded one, so
// a truncating worker pool slightly underestimates.
func Ratio(inside, numPoints int) float64 {
	if numPoints <= 0 {
		return 0
	}
	return 4.0 * float64(inside) / float64(numPoints)
}

// Estimate initializes s with cfg, runs it to completion and classifies the
// recorded samples.
//
// Classification happens only after every worker has finished. If the
// strategy fails, no Result is returned.
func Estimate(ctx context.Context, s strategy.Strategy, cfg *strategy.Config, m *metrics.Engine) (*Result, error) {
	m.SetPhase(metrics.PhaseInit)

	if err := s.Init(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize %s strategy: %w", cfg.Type, err)
	}

	start := time.Now()
	store, err := s.Run(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("%s strategy failed: %w", cfg.Type, err)
	}
	if store == nil {
		return nil, fmt.Errorf("%s strategy returned no samples", cfg.Type)
	}

	m.SetPhase(metrics.PhaseClassifying)
	inside := store.CountInside(cfg.Radius)
	duration := time.Since(start)
	m.SetPhase(metrics.PhaseDone)

	pi := Ratio(inside, cfg.NumPoints)
	result := &Result{
		Strategy:  s.Type(),
		Name:      cfg.Name,
		Duration:  duration,
		Config:    cfg,
		NumPoints: cfg.NumPoints,
		Recorded:  store.Count(),
		Inside:    inside,
		Pi:        pi,
		Deviation: math.Abs(pi - math.Pi),
		Stats:     s.GetStats(),
	}
	if result.Stats != nil {
		result.Workers = result.Stats.Workers
	}
	if m != nil {
		result.Metrics = m.GetSnapshot()
	}

	return result, nil
}

// Report contains the results of every strategy of a run.
type Report struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Duration  time.Duration `json:"duration"`

	// CPUs is the available parallelism on the host.
	CPUs int `json:"cpus"`

	Results []*Result `json:"results"`
	Errors  []string  `json:"errors,omitempty"`
}

// Result returns the result for the given strategy type, or nil.
func (r *Report) Result(t strategy.Type) *Result {
	for _, res := range r.Results {
		if res.Strategy == t {
			return res
		}
	}
	return nil
}

// Factory creates a strategy for a type.
type Factory func(strategy.Type) (strategy.Strategy, error)

// Engine runs the configured strategies one after the other.
//
// Example usage:
//
//	cfg, _ := config.LoadConfig("montepi.yaml")
//	engine, _ := NewEngine(cfg)
//	report, _ := engine.Run(context.Background())
//	fmt.Printf("%d strategies completed\n", len(report.Results))
type Engine struct {
	config  *config.Config
	factory Factory

	// OnResult, when set, is called after each strategy completes.
	OnResult func(*Result)

	// OnStart, when set, is called before each strategy starts.
	OnStart func(*strategy.Config)

	// OnError, when set, is called when a strategy fails.
	OnError func(strategy.Type, error)

	mu      sync.Mutex
	running bool
}

// NewEngine validates cfg, applies defaults and creates an engine.
func NewEngine(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	config.ApplyDefaults(cfg)

	return &Engine{
		config:  cfg,
		factory: strategy.NewStrategy,
	}, nil
}

// SetFactory replaces the strategy factory.
func (e *Engine) SetFactory(f Factory) {
	e.factory = f
}

// Config returns the resolved configuration.
func (e *Engine) Config() *config.Config {
	return e.config
}

// Run executes every configured strategy sequentially.
//
// A failing strategy does not stop the run; its error is recorded in the
// report and joined into the returned error. Cancellation stops the run
// before the next strategy starts.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, fmt.Errorf("engine is already running")
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	report := &Report{
		ID:        xid.New().String(),
		Name:      e.config.Name,
		StartTime: time.Now(),
		CPUs:      strategy.AvailableParallelism(),
		Results:   make([]*Result, 0, len(e.config.Strategies)),
	}

	var errs []error
	for _, name := range e.config.Strategies {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("run cancelled before %s: %w", name, err))
			break
		}

		result, err := e.runOne(ctx, name)
		if err != nil {
			errs = append(errs, err)
			report.Errors = append(report.Errors, err.Error())
			if e.OnError != nil {
				e.OnError(strategy.Type(name), err)
			}
			continue
		}

		report.Results = append(report.Results, result)
		if e.OnResult != nil {
			e.OnResult(result)
		}
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	return report, errors.Join(errs...)
}

func (e *Engine) runOne(ctx context.Context, name string) (*Result, error) {
	cfg, err := e.config.StrategyConfig(name)
	if err != nil {
		return nil, err
	}

	s, err := e.factory(cfg.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s strategy: %w", name, err)
	}

	if e.OnStart != nil {
		e.OnStart(cfg)
	}

	return Estimate(ctx, s, cfg, metrics.NewEngine())
}
