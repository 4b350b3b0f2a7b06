package main

import (
	"context"
	"fmt"
	"os"

	"github.com/wesleyorama2/montepi/internal/montecarlo/engine"
	"github.com/wesleyorama2/montepi/internal/montecarlo/golden"
	"github.com/wesleyorama2/montepi/internal/montecarlo/strategy"
)

// Golden runs leave SpinWaits at zero.
const (
	numPoints = 10000
	radius    = 10000
	seed      = 269222
)

func main() {
	outputPath := "golden.json"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	var cases []golden.Case
	for _, cfg := range goldenConfigs() {
		s, err := strategy.NewStrategy(cfg.Type)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		result, err := engine.Estimate(context.Background(), s, cfg, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		c, err := golden.CaseOf(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: %d\n", golden.KeyOf(cfg), c.Inside)
		cases = append(cases, c)
	}

	data, err := golden.Marshal(cases)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outputPath, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Golden file generated: %s\n", outputPath)
}

func goldenConfigs() []*strategy.Config {
	base := func(t strategy.Type, n int, s int64) *strategy.Config {
		return &strategy.Config{Type: t, NumPoints: n, Radius: radius, Seed: s}
	}

	serial := base(strategy.TypeSerial, numPoints, seed)
	serialLarge := base(strategy.TypeSerial, 100000, seed)
	serialSmall := base(strategy.TypeSerial, 1000, 42)

	poolShared := base(strategy.TypeWorkerPool, numPoints, seed)
	poolShared.Workers = 3

	poolSharedLast := base(strategy.TypeWorkerPool, numPoints, seed)
	poolSharedLast.Workers = 4
	poolSharedLast.Remainder = strategy.RemainderLastWorker

	pool4 := base(strategy.TypeWorkerPool, numPoints, seed)
	pool4.Workers = 4
	pool4.Generator = strategy.GeneratorPerWorker

	pool3 := base(strategy.TypeWorkerPool, numPoints, seed)
	pool3.Workers = 3
	pool3.Generator = strategy.GeneratorPerWorker

	pool3Last := base(strategy.TypeWorkerPool, numPoints, seed)
	pool3Last.Workers = 3
	pool3Last.Generator = strategy.GeneratorPerWorker
	pool3Last.Remainder = strategy.RemainderLastWorker

	loopShared := base(strategy.TypeStructuredParallel, numPoints, seed)

	loop4 := base(strategy.TypeStructuredParallel, numPoints, seed)
	loop4.Workers = 4
	loop4.Generator = strategy.GeneratorPerWorker

	loopGrain1000 := base(strategy.TypeStructuredParallel, numPoints, seed)
	loopGrain1000.Grain = 1000
	loopGrain1000.Generator = strategy.GeneratorPerWorker

	loopGrain3000 := base(strategy.TypeStructuredParallel, numPoints, seed)
	loopGrain3000.Grain = 3000
	loopGrain3000.Generator = strategy.GeneratorPerWorker

	return []*strategy.Config{
		serial, serialLarge, serialSmall,
		poolShared, poolSharedLast, pool4, pool3, pool3Last,
		loopShared, loop4, loopGrain1000, loopGrain3000,
	}
}
