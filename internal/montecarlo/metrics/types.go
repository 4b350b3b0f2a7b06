package metrics

import "time"

// Phase represents a phase of an estimation run.
type Phase string

const (
	// PhaseInit is the phase before any sample is drawn
	PhaseInit Phase = "init"

	// PhaseSampling is the parallel (or serial) sample generation phase
	PhaseSampling Phase = "sampling"

	// PhaseClassifying is the single-threaded inside/outside pass
	PhaseClassifying Phase = "classifying"

	// PhaseDone indicates the run has completed
	PhaseDone Phase = "done"
)

// PhaseChange records when a phase transition occurred.
type PhaseChange struct {
	Phase     Phase     `json:"phase"`
	Timestamp time.Time `json:"timestamp"`
	Samples   int64     `json:"samples"`
}

// Snapshot contains a point-in-time view of all metrics.
type Snapshot struct {
	Samples      int64         `json:"samples"`
	Workers      int           `json:"workers"`
	LockWait     DurationStats `json:"lockWait"`
	TotalWait    time.Duration `json:"totalWait"`
	WorkerBusy   DurationStats `json:"workerBusy"`
	CurrentPhase Phase         `json:"currentPhase"`
	Phases       []PhaseChange `json:"phases,omitempty"`
	Elapsed      time.Duration `json:"elapsed"`
	StartTime    time.Time     `json:"startTime"`
	Timestamp    time.Time     `json:"timestamp"`
}

// DurationStats summarises a duration histogram.
type DurationStats struct {
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
	Mean  time.Duration `json:"mean"`
	P50   time.Duration `json:"p50"`
	P90   time.Duration `json:"p90"`
	P99   time.Duration `json:"p99"`
	Count int64         `json:"count"`
}
