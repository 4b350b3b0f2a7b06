// Package metrics collects contention and timing metrics for estimation runs.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Engine aggregates metrics from all workers of a single run.
//
// Workers never write to the engine's histograms directly. Each one owns a
// Recorder with private histograms and hands it back through Collect once
// it is done, so recording on the hot path needs no synchronization.
//
// # Thread Safety
//
// Engine is safe for concurrent use. Counters are atomic and the merged
// histograms are protected by a mutex.
type Engine struct {
	// Lock wait: time spent acquiring the shared sampler lock, in nanoseconds
	lockWaitHist *hdrhistogram.Histogram
	// Worker busy time: wall time of each worker's chunk, in microseconds
	busyHist *hdrhistogram.Histogram
	histMu   sync.Mutex

	samples   atomic.Int64
	totalWait atomic.Int64
	workers   atomic.Int32

	currentPhase Phase
	phaseHistory []PhaseChange
	phaseMu      sync.RWMutex

	startTime time.Time

	config EngineConfig
}

// EngineConfig contains configuration for the metrics engine.
type EngineConfig struct {
	// LockWaitMax is the largest recordable lock wait in nanoseconds (default: 10s)
	LockWaitMax int64

	// BusyMax is the largest recordable worker busy time in microseconds (default: 1h)
	BusyMax int64

	// SigFigs is the number of significant figures (default: 3)
	SigFigs int
}

// DefaultEngineConfig returns the default configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		LockWaitMax: int64(10 * time.Second),
		BusyMax:     3600000000, // 1 hour in microseconds
		SigFigs:     3,
	}
}

// NewEngine creates a new metrics engine with default configuration.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig())
}

// NewEngineWithConfig creates a new metrics engine with custom configuration.
func NewEngineWithConfig(config EngineConfig) *Engine {
	return &Engine{
		lockWaitHist: hdrhistogram.New(1, config.LockWaitMax, config.SigFigs),
		busyHist:     hdrhistogram.New(1, config.BusyMax, config.SigFigs),
		currentPhase: PhaseInit,
		phaseHistory: make([]PhaseChange, 0),
		startTime:    time.Now(),
		config:       config,
	}
}

// NewRecorder creates a worker-private recorder bound to this engine.
//
// A nil engine returns a nil recorder; all Recorder methods accept a nil
// receiver, so metrics can be switched off without branching at call sites.
func (e *Engine) NewRecorder() *Recorder {
	if e == nil {
		return nil
	}
	return &Recorder{
		lockWait: hdrhistogram.New(1, e.config.LockWaitMax, e.config.SigFigs),
		config:   e.config,
		start:    time.Now(),
	}
}

// Collect merges a finished recorder into the engine.
func (e *Engine) Collect(r *Recorder) {
	if e == nil || r == nil {
		return
	}

	busy := time.Since(r.start).Microseconds()
	busy = clamp(busy, 1, e.config.BusyMax)

	e.histMu.Lock()
	e.lockWaitHist.Merge(r.lockWait)
	e.busyHist.RecordValue(busy)
	e.histMu.Unlock()

	e.samples.Add(r.samples)
	e.totalWait.Add(int64(r.totalWait))
}

// SetPhase updates the current run phase.
func (e *Engine) SetPhase(phase Phase) {
	if e == nil {
		return
	}
	e.phaseMu.Lock()
	defer e.phaseMu.Unlock()

	if e.currentPhase == phase {
		return
	}

	e.currentPhase = phase
	e.phaseHistory = append(e.phaseHistory, PhaseChange{
		Phase:     phase,
		Timestamp: time.Now(),
		Samples:   e.samples.Load(),
	})
}

// GetPhase returns the current run phase.
func (e *Engine) GetPhase() Phase {
	e.phaseMu.RLock()
	defer e.phaseMu.RUnlock()
	return e.currentPhase
}

// SetWorkers records how many workers the strategy started.
func (e *Engine) SetWorkers(n int) {
	if e == nil {
		return
	}
	e.workers.Store(int32(n))
}

// GetSnapshot returns a point-in-time snapshot of all metrics.
func (e *Engine) GetSnapshot() *Snapshot {
	e.histMu.Lock()
	lockWait := statsOf(e.lockWaitHist, time.Nanosecond)
	busy := statsOf(e.busyHist, time.Microsecond)
	e.histMu.Unlock()

	e.phaseMu.RLock()
	phases := make([]PhaseChange, len(e.phaseHistory))
	copy(phases, e.phaseHistory)
	phase := e.currentPhase
	e.phaseMu.RUnlock()

	return &Snapshot{
		Samples:      e.samples.Load(),
		Workers:      int(e.workers.Load()),
		LockWait:     lockWait,
		TotalWait:    time.Duration(e.totalWait.Load()),
		WorkerBusy:   busy,
		CurrentPhase: phase,
		Phases:       phases,
		Elapsed:      time.Since(e.startTime),
		StartTime:    e.startTime,
		Timestamp:    time.Now(),
	}
}

// Reset resets all metrics to initial state.
func (e *Engine) Reset() {
	e.histMu.Lock()
	e.lockWaitHist.Reset()
	e.busyHist.Reset()
	e.histMu.Unlock()

	e.samples.Store(0)
	e.totalWait.Store(0)
	e.workers.Store(0)

	e.phaseMu.Lock()
	e.currentPhase = PhaseInit
	e.phaseHistory = make([]PhaseChange, 0)
	e.phaseMu.Unlock()

	e.startTime = time.Now()
}

// Recorder accumulates one worker's metrics without locking.
//
// A Recorder must only be used by the goroutine that created it.
type Recorder struct {
	lockWait  *hdrhistogram.Histogram
	samples   int64
	totalWait time.Duration
	start     time.Time
	config    EngineConfig
}

// RecordSample counts one recorded sample and the lock wait it incurred.
// Pass zero for samples taken without a shared lock.
func (r *Recorder) RecordSample(wait time.Duration) {
	if r == nil {
		return
	}
	r.samples++
	if wait <= 0 {
		return
	}
	r.totalWait += wait
	_ = r.lockWait.RecordValue(clamp(int64(wait), 1, r.config.LockWaitMax))
}

// AddSamples counts n samples taken without a shared lock.
func (r *Recorder) AddSamples(n int) {
	if r == nil {
		return
	}
	r.samples += int64(n)
}

// Samples returns the number of samples counted so far.
func (r *Recorder) Samples() int64 {
	if r == nil {
		return 0
	}
	return r.samples
}

func statsOf(h *hdrhistogram.Histogram, unit time.Duration) DurationStats {
	return DurationStats{
		Min:   time.Duration(h.Min()) * unit,
		Max:   time.Duration(h.Max()) * unit,
		Mean:  time.Duration(h.Mean()) * unit,
		P50:   time.Duration(h.ValueAtQuantile(50)) * unit,
		P90:   time.Duration(h.ValueAtQuantile(90)) * unit,
		P99:   time.Duration(h.ValueAtQuantile(99)) * unit,
		Count: h.TotalCount(),
	}
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
