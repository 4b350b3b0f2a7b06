package montecarlo

import "sync/atomic"

// spinSink keeps SpinWait loops observable so the compiler cannot drop them.
var spinSink atomic.Uint64

// SpinWait burns CPU for the given number of iterations to simulate
// additional per-sample processing. It never blocks or yields.
func SpinWait(iterations int) {
	if iterations <= 0 {
		return
	}
	var acc uint64
	for i := 0; i < iterations; i++ {
		acc += uint64(i) ^ (acc >> 3)
	}
	spinSink.Add(acc & 1)
}
