// Package strategy provides the execution strategies for PI estimation.
package strategy

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wesleyorama2/montepi/internal/montecarlo"
	"github.com/wesleyorama2/montepi/internal/montecarlo/metrics"
)

// Type identifies the type of strategy.
type Type string

const (
	// TypeSerial draws every sample on the calling goroutine.
	TypeSerial Type = "serial"

	// TypeWorkerPool splits the samples into fixed chunks, one per worker.
	TypeWorkerPool Type = "worker-pool"

	// TypeStructuredParallel runs a parallel-for over the sample index range.
	TypeStructuredParallel Type = "structured-parallel"
)

// GeneratorMode selects how workers obtain random points.
type GeneratorMode string

const (
	// GeneratorShared routes every sample through one generator behind one lock.
	GeneratorShared GeneratorMode = "shared"

	// GeneratorPerWorker gives each worker (or block) its own seeded generator.
	GeneratorPerWorker GeneratorMode = "per-worker"
)

// RemainderPolicy decides what happens to NumPoints % workers.
type RemainderPolicy string

const (
	// RemainderTruncate drops the remainder; only workers*floor(N/workers)
	// samples are recorded.
	RemainderTruncate RemainderPolicy = "truncate"

	// RemainderLastWorker hands the remainder to the last worker.
	RemainderLastWorker RemainderPolicy = "last-worker"
)

// DefaultWorkerMultiplier is the number of workers per logical CPU used by
// the worker pool when no explicit worker count is configured.
const DefaultWorkerMultiplier = 2

// MaxNumPoints bounds the sample count; the store holds one float64 per sample.
const MaxNumPoints = math.MaxInt32

// Strategy defines the interface for PI estimation strategies.
//
// A strategy decides HOW the samples are produced: on one goroutine, on a
// fixed pool of workers, or as a dynamically partitioned parallel loop.
// Every strategy produces its own generator and store on entry and returns
// only after every sample has been recorded.
type Strategy interface {
	// Type returns the strategy type.
	Type() Type

	// Init initializes the strategy with configuration.
	// Called once before Run().
	Init(ctx context.Context, config *Config) error

	// Run draws all samples and blocks until every worker has finished.
	// On error no store is returned.
	Run(ctx context.Context, metrics *metrics.Engine) (*montecarlo.SampleStore, error)

	// GetProgress returns current progress (0.0 to 1.0).
	GetProgress() float64

	// GetStats returns strategy-specific statistics.
	GetStats() *Stats
}

// Config contains configuration for a strategy.
type Config struct {
	// Name is the display name of this strategy instance
	Name string `json:"name" yaml:"name"`

	// Type is the strategy type
	Type Type `json:"type" yaml:"type"`

	// Sampling domain
	NumPoints int   `json:"numPoints" yaml:"numPoints"`
	Radius    int   `json:"radius" yaml:"radius"`
	Seed      int64 `json:"seed" yaml:"seed"`

	// Synthetic per-sample work
	SpinWaits int `json:"spinWaits" yaml:"spinWaits"`

	// Parallel strategies
	Workers          int `json:"workers,omitempty" yaml:"workers,omitempty"`
	WorkerMultiplier int `json:"workerMultiplier,omitempty" yaml:"workerMultiplier,omitempty"`
	Grain            int `json:"grain,omitempty" yaml:"grain,omitempty"`

	Generator GeneratorMode   `json:"generator,omitempty" yaml:"generator,omitempty"`
	Remainder RemainderPolicy `json:"remainder,omitempty" yaml:"remainder,omitempty"`
}

// Stats contains strategy statistics.
type Stats struct {
	StartTime time.Time     `json:"startTime"`
	Elapsed   time.Duration `json:"elapsed"`

	Workers int `json:"workers"`
	Blocks  int `json:"blocks,omitempty"`
	Grain   int `json:"grain,omitempty"`

	TargetSamples int64 `json:"targetSamples"`
	Recorded      int64 `json:"recorded"`
}

// Validate validates the strategy configuration.
func (c *Config) Validate() error {
	if c.Type == "" {
		return &ValidationError{Field: "type", Message: "strategy type is required"}
	}
	if !IsValidStrategyType(string(c.Type)) {
		return &ValidationError{Field: "type", Message: "unknown strategy type: " + string(c.Type)}
	}
	if c.NumPoints <= 0 {
		return &ValidationError{Field: "numPoints", Message: "numPoints must be > 0"}
	}
	if c.NumPoints > MaxNumPoints {
		return &ValidationError{Field: "numPoints", Message: fmt.Sprintf("numPoints must be <= %d", MaxNumPoints)}
	}
	if c.Radius <= 0 {
		return &ValidationError{Field: "radius", Message: "radius must be > 0"}
	}
	if c.Radius > math.MaxInt32 {
		return &ValidationError{Field: "radius", Message: fmt.Sprintf("radius must be <= %d", math.MaxInt32)}
	}
	if c.SpinWaits < 0 {
		return &ValidationError{Field: "spinWaits", Message: "spinWaits must be >= 0"}
	}
	if c.Workers < 0 {
		return &ValidationError{Field: "workers", Message: "workers must be >= 0"}
	}
	if c.WorkerMultiplier < 0 {
		return &ValidationError{Field: "workerMultiplier", Message: "workerMultiplier must be >= 0"}
	}
	if c.Grain < 0 {
		return &ValidationError{Field: "grain", Message: "grain must be >= 0"}
	}

	switch c.Generator {
	case "", GeneratorShared, GeneratorPerWorker:
	default:
		return &ValidationError{Field: "generator", Message: "unknown generator mode: " + string(c.Generator)}
	}

	switch c.Remainder {
	case "", RemainderTruncate, RemainderLastWorker:
	default:
		return &ValidationError{Field: "remainder", Message: "unknown remainder policy: " + string(c.Remainder)}
	}

	return nil
}

// EffectiveGenerator returns the configured generator mode, defaulting to shared.
func (c *Config) EffectiveGenerator() GeneratorMode {
	if c.Generator == "" {
		return GeneratorShared
	}
	return c.Generator
}

// EffectiveRemainder returns the configured remainder policy, defaulting to truncate.
func (c *Config) EffectiveRemainder() RemainderPolicy {
	if c.Remainder == "" {
		return RemainderTruncate
	}
	return c.Remainder
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error on field '" + e.Field + "': " + e.Message
}

// WorkerError reports the failure of a single worker.
type WorkerError struct {
	Worker int
	Err    error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d: %v", e.Worker, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}

// PanicError carries a value recovered from a panicking worker.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ctxCheckInterval is how many samples a worker draws between cancellation checks.
const ctxCheckInterval = 256
