package strategy

import (
	"runtime"

	"github.com/shirou/gopsutil/cpu"
)

// AvailableParallelism returns the number of logical CPUs on this machine.
//
// The count comes from the operating system through gopsutil; when that
// fails the Go runtime's view is used instead.
func AvailableParallelism() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// resolveWorkers returns the explicit worker count, or multiplier times the
// available parallelism.
func resolveWorkers(workers, multiplier int) int {
	if workers > 0 {
		return workers
	}
	if multiplier <= 0 {
		multiplier = DefaultWorkerMultiplier
	}
	return multiplier * AvailableParallelism()
}
