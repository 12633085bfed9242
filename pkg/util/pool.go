package util

import "runtime"

// GetOptimalPoolSize returns the pool size for CPU-bound parallel work.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
// 2x the core count keeps cores busy while CGO parse calls block; the
// floor of 4 preserves some parallelism on weak machines and the cap of 32
// bounds memory on high-core hosts. The same size is used for parser pools
// and batch worker pools so workers never starve waiting for a parser.
func GetOptimalPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < 4 {
		size = 4
	}
	if size > 32 {
		size = 32
	}
	return size
}

// GetOptimalPoolSizeWithOverride returns override when positive, otherwise
// GetOptimalPoolSize(). Used for testing and tuning.
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
