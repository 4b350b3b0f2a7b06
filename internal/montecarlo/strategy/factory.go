package strategy

import (
	"context"
	"fmt"
)

// NewStrategy creates a new strategy of the specified type.
//
// Supported types:
//   - "serial" - One goroutine, deterministic baseline
//   - "worker-pool" - Fixed chunks on 2 x CPU workers
//   - "structured-parallel" - Dynamically partitioned parallel loop
//
// Returns an uninitialized strategy. Call Init() before Run().
func NewStrategy(strategyType Type) (Strategy, error) {
	switch strategyType {
	case TypeSerial:
		return NewSerial(), nil
	case TypeWorkerPool:
		return NewWorkerPool(), nil
	case TypeStructuredParallel:
		return NewStructuredParallel(), nil
	default:
		return nil, fmt.Errorf("unknown strategy type: %s", strategyType)
	}
}

// NewStrategyFromString creates a new strategy from a string type name.
func NewStrategyFromString(strategyType string) (Strategy, error) {
	return NewStrategy(Type(strategyType))
}

// CreateAndInitStrategy creates and initializes a strategy with the given config.
func CreateAndInitStrategy(ctx context.Context, cfg *Config) (Strategy, error) {
	s, err := NewStrategy(cfg.Type)
	if err != nil {
		return nil, err
	}

	if err := s.Init(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize strategy: %w", err)
	}

	return s, nil
}

// IsValidStrategyType returns true if the type is a valid strategy type.
func IsValidStrategyType(strategyType string) bool {
	switch Type(strategyType) {
	case TypeSerial, TypeWorkerPool, TypeStructuredParallel:
		return true
	default:
		return false
	}
}

// GetSupportedStrategies returns a list of all supported strategy types.
func GetSupportedStrategies() []Type {
	return []Type{
		TypeSerial,
		TypeWorkerPool,
		TypeStructuredParallel,
	}
}

// StrategyDescription provides documentation for a strategy type.
type StrategyDescription struct {
	Type        Type
	Name        string
	Description string
	Notes       []string
}

// GetStrategyDescription returns documentation for a strategy type.
func GetStrategyDescription(strategyType Type) *StrategyDescription {
	switch strategyType {
	case TypeSerial:
		return &StrategyDescription{
			Type:        TypeSerial,
			Name:        "SerialPI",
			Description: "Draws every sample on a single goroutine, then spins for the configured busy work.",
			Notes: []string{
				"Exactly reproducible for a fixed seed",
				"Wall-clock baseline for the parallel strategies",
			},
		}
	case TypeWorkerPool:
		return &StrategyDescription{
			Type:        TypeWorkerPool,
			Name:        "WorkerPoolPI",
			Description: "Splits the samples into equal chunks across 2 x CPU workers and waits for all of them.",
			Notes: []string{
				"Default remainder policy drops NumPoints % workers samples",
				"Shared generator mode serialises draw and record behind one lock",
				"Per-worker generator mode is deterministic for a fixed worker count",
			},
		}
	case TypeStructuredParallel:
		return &StrategyDescription{
			Type:        TypeStructuredParallel,
			Name:        "StructuredParallelPI",
			Description: "Runs a parallel loop over the sample indices; blocks are claimed on demand by GOMAXPROCS goroutines.",
			Notes: []string{
				"Always records exactly NumPoints samples",
				"First failing block cancels the rest of the loop",
				"Per-worker generator mode seeds one generator per block and is deterministic for a fixed grain",
			},
		}
	default:
		return nil
	}
}
