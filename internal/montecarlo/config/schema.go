// Package config provides configuration parsing and validation for PI estimation runs.
package config

import (
	_ "embed"
)

// Defaults for an estimation run.
const (
	DefaultNumPoints        = 10000000
	DefaultRadius           = 10000
	DefaultSeed             = 269222
	DefaultSpinWaits        = 1000
	DefaultWorkerMultiplier = 2
	DefaultGenerator        = "shared"
	DefaultRemainder        = "truncate"
)

// DefaultStrategies lists the strategies run when none are configured.
var DefaultStrategies = []string{"serial", "worker-pool", "structured-parallel"}

//go:embed schema.json
var documentSchema string

// Config is the root configuration for an estimation run.
//
// Example YAML:
//
//	name: "Quick comparison"
//	numPoints: 1000000
//	radius: 10000
//	seed: 269222
//	spinWaits: 1000
//	workerMultiplier: 2
//	generator: per-worker
//	strategies:
//	  - serial
//	  - worker-pool
type Config struct {
	// Name of the run (for reporting)
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// NumPoints is the number of samples (NUMPOINTS)
	NumPoints int `json:"numPoints,omitempty" yaml:"numPoints,omitempty"`

	// Radius bounds the sampling square and is the circle radius (RADIUS)
	Radius int `json:"radius,omitempty" yaml:"radius,omitempty"`

	// Seed for the random generator (SEED)
	Seed *int64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// SpinWaits is the synthetic busy work per sample (SPINWAITS)
	SpinWaits *int `json:"spinWaits,omitempty" yaml:"spinWaits,omitempty"`

	// WorkerMultiplier scales the available parallelism into a worker count
	WorkerMultiplier int `json:"workerMultiplier,omitempty" yaml:"workerMultiplier,omitempty"`

	// Workers overrides the derived worker count when > 0
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// Grain is the block size of the structured parallel loop (0 = automatic)
	Grain int `json:"grain,omitempty" yaml:"grain,omitempty"`

	// Generator is "shared" (one locked generator) or "per-worker"
	Generator string `json:"generator,omitempty" yaml:"generator,omitempty"`

	// Remainder is "truncate" or "last-worker"
	Remainder string `json:"remainder,omitempty" yaml:"remainder,omitempty"`

	// Strategies to run, in order
	Strategies []string `json:"strategies,omitempty" yaml:"strategies,omitempty"`
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Name == "" {
		cfg.Name = "Geometric approximation of PI"
	}
	if cfg.NumPoints == 0 {
		cfg.NumPoints = DefaultNumPoints
	}
	if cfg.Radius == 0 {
		cfg.Radius = DefaultRadius
	}
	if cfg.Seed == nil {
		seed := int64(DefaultSeed)
		cfg.Seed = &seed
	}
	if cfg.SpinWaits == nil {
		spin := DefaultSpinWaits
		cfg.SpinWaits = &spin
	}
	if cfg.WorkerMultiplier == 0 {
		cfg.WorkerMultiplier = DefaultWorkerMultiplier
	}
	if cfg.Generator == "" {
		cfg.Generator = DefaultGenerator
	}
	if cfg.Remainder == "" {
		cfg.Remainder = DefaultRemainder
	}
	if len(cfg.Strategies) == 0 {
		cfg.Strategies = append([]string(nil), DefaultStrategies...)
	}
}

// GetSpinWaits returns the configured spin waits or the default.
func (c *Config) GetSpinWaits() int {
	if c.SpinWaits == nil {
		return DefaultSpinWaits
	}
	return *c.SpinWaits
}

// GetSeed returns the configured seed or the default.
func (c *Config) GetSeed() int64 {
	if c.Seed == nil {
		return DefaultSeed
	}
	return *c.Seed
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 {
	return &v
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
