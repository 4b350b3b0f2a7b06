package montecarlo

import (
	"sync"
	"testing"
)

func TestSampleStore_RecordAndCount(t *testing.T) {
	s := NewSampleStore(4)
	s.Record(1)
	s.Record(10)
	s.Record(10.5)
	s.RecordBatch([]float64{3, 20})

	if got := s.Count(); got != 5 {
		t.Errorf("Count() = %d, want 5", got)
	}
	if got := s.CountInside(10); got != 3 {
		t.Errorf("CountInside(10) = %d, want 3", got)
	}
}

func TestSampleStore_CountInsideNeverExceedsCount(t *testing.T) {
	s := NewSampleStore(0)
	g := NewGenerator(3, 100)
	for i := 0; i < 5000; i++ {
		s.Record(Distance(g.NextPoint()))
	}

	if s.CountInside(100) > s.Count() {
		t.Errorf("CountInside() = %d > Count() = %d", s.CountInside(100), s.Count())
	}
}

func TestSampleStore_ConcurrentRecord(t *testing.T) {
	const (
		writers = 16
		each    = 1000
	)
	s := NewSampleStore(0)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				s.Record(float64(w))
			}
		}(w)
	}
	wg.Wait()

	if got := s.Count(); got != writers*each {
		t.Fatalf("Count() = %d, want %d", got, writers*each)
	}

	perWriter := make(map[float64]int)
	for _, d := range s.Samples() {
		perWriter[d]++
	}
	for w := 0; w < writers; w++ {
		if perWriter[float64(w)] != each {
			t.Errorf("writer %d recorded %d samples, want %d", w, perWriter[float64(w)], each)
		}
	}
}

func TestSampleStore_SamplesIsCopy(t *testing.T) {
	s := NewSampleStore(1)
	s.Record(2)

	out := s.Samples()
	out[0] = 99

	if s.Samples()[0] != 2 {
		t.Error("Samples() exposed the internal slice")
	}
}

func TestShard_FlushTo(t *testing.T) {
	store := NewSampleStore(0)
	shard := NewShard(3)
	shard.Record(1)
	shard.Record(2)
	shard.Record(3)

	if shard.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", shard.Len())
	}

	shard.FlushTo(store)

	if shard.Len() != 0 {
		t.Errorf("Len() after flush = %d, want 0", shard.Len())
	}
	if store.Count() != 3 {
		t.Errorf("store Count() = %d, want 3", store.Count())
	}
}

func TestNewSampleStore_NegativeCapacity(t *testing.T) {
	s := NewSampleStore(-1)
	s.Record(1)
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}
}

func TestSpinWait(t *testing.T) {
	// Must return for zero, negative and positive counts.
	SpinWait(0)
	SpinWait(-5)
	SpinWait(1000)
}

func BenchmarkSampleStore_Record_Parallel(b *testing.B) {
	s := NewSampleStore(0)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s.Record(1)
		}
	})
}

func BenchmarkSharedSampler_Sample(b *testing.B) {
	sampler := NewSharedSampler(NewGenerator(1, 10000), NewSampleStore(b.N))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sampler.Sample()
	}
}
