package montecarlo

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Generator produces uniformly distributed points inside the sampling square.
//
// A Generator is a single logical random stream and is NOT safe for
// concurrent use. Share it through a SharedSampler, or give every worker
// its own Generator.
type Generator struct {
	radius int
	rng    *rand.Rand
}

// NewGenerator creates a generator for the square [0, radius) x [0, radius).
//
// The same seed always yields the same sequence of points.
func NewGenerator(seed int64, radius int) *Generator {
	s := uint64(seed)
	return &Generator{
		radius: radius,
		rng:    rand.New(rand.NewPCG(s, s)),
	}
}

// Radius returns the bound of the sampling square.
func (g *Generator) Radius() int {
	return g.radius
}

// NextPoint draws the next point, X first and then Y.
func (g *Generator) NextPoint() Point {
	x := g.rng.IntN(g.radius)
	y := g.rng.IntN(g.radius)
	return Point{X: x, Y: y}
}

// SharedSampler couples one Generator with one SampleStore behind a single lock.
//
// Every call to Sample draws a point, computes its distance and records it
// as one critical section, so at most one caller does real work at a time.
type SharedSampler struct {
	mu        sync.Mutex
	generator *Generator
	store     *SampleStore
}

// NewSharedSampler creates a sampler writing into store.
func NewSharedSampler(generator *Generator, store *SampleStore) *SharedSampler {
	return &SharedSampler{
		generator: generator,
		store:     store,
	}
}

// Sample performs one draw-measure-record step under the sampler lock.
//
// Returns the time spent waiting to acquire the lock.
func (s *SharedSampler) Sample() time.Duration {
	start := time.Now()
	s.mu.Lock()
	wait := time.Since(start)

	d := Distance(s.generator.NextPoint())
	s.store.Record(d)

	s.mu.Unlock()
	return wait
}

// Store returns the store the sampler writes into.
func (s *SharedSampler) Store() *SampleStore {
	return s.store
}
