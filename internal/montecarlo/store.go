package montecarlo

import "sync"

// SampleStore is the shared accumulator of sample distances.
//
// Samples are stored raw and classified in a single pass once every
// writer has finished, so the parallel phase never touches a shared
// counter. Record and RecordBatch are safe for concurrent use.
type SampleStore struct {
	mu      sync.Mutex
	samples []float64
}

// NewSampleStore creates a store with room for capacity samples.
func NewSampleStore(capacity int) *SampleStore {
	if capacity < 0 {
		capacity = 0
	}
	return &SampleStore{
		samples: make([]float64, 0, capacity),
	}
}

// Record appends one sample.
func (s *SampleStore) Record(distance float64) {
	s.mu.Lock()
	s.samples = append(s.samples, distance)
	s.mu.Unlock()
}

// RecordBatch appends a batch of samples under a single lock acquisition.
func (s *SampleStore) RecordBatch(distances []float64) {
	if len(distances) == 0 {
		return
	}
	s.mu.Lock()
	s.samples = append(s.samples, distances...)
	s.mu.Unlock()
}

// Count returns the number of recorded samples.
func (s *SampleStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

// CountInside scans every recorded sample and counts those inside a circle
// of the given radius.
//
// Call it only after all writers are done; it observes whatever has been
// recorded at the moment it takes the lock.
func (s *SampleStore) CountInside(radius int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	circle := Circle{Radius: radius}
	inside := 0
	for _, d := range s.samples {
		if circle.IsInside(d) {
			inside++
		}
	}
	return inside
}

// Samples returns a copy of the recorded samples.
func (s *SampleStore) Samples() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return out
}

// Shard is a worker-local sample buffer.
//
// A Shard is owned by exactly one worker and needs no locking; its contents
// reach the shared store in one batch through FlushTo.
type Shard struct {
	samples []float64
}

// NewShard creates a shard with room for capacity samples.
func NewShard(capacity int) *Shard {
	if capacity < 0 {
		capacity = 0
	}
	return &Shard{samples: make([]float64, 0, capacity)}
}

// Record appends one sample to the shard.
func (s *Shard) Record(distance float64) {
	s.samples = append(s.samples, distance)
}

// Len returns the number of buffered samples.
func (s *Shard) Len() int {
	return len(s.samples)
}

// FlushTo moves the buffered samples into store and empties the shard.
func (s *Shard) FlushTo(store *SampleStore) {
	store.RecordBatch(s.samples)
	s.samples = s.samples[:0]
}
