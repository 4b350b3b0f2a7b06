package config

import (
	"fmt"

	"github.com/wesleyorama2/montepi/internal/montecarlo/strategy"
)

// StrategyConfig builds the strategy configuration for one entry of
// Strategies. Unset fields take their defaults.
func (c *Config) StrategyConfig(name string) (*strategy.Config, error) {
	if !strategy.IsValidStrategyType(name) {
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}

	resolved := *c
	ApplyDefaults(&resolved)

	return &strategy.Config{
		Name:             fmt.Sprintf("%s (%s)", resolved.Name, name),
		Type:             strategy.Type(name),
		NumPoints:        resolved.NumPoints,
		Radius:           resolved.Radius,
		Seed:             resolved.GetSeed(),
		SpinWaits:        resolved.GetSpinWaits(),
		Workers:          resolved.Workers,
		WorkerMultiplier: resolved.WorkerMultiplier,
		Grain:            resolved.Grain,
		Generator:        strategy.GeneratorMode(resolved.Generator),
		Remainder:        strategy.RemainderPolicy(resolved.Remainder),
	}, nil
}
