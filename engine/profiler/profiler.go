// Package profiler exposes cheap process stats for debug overlays.
package profiler

import "runtime"

// MemoryUsage returns the live heap size in bytes.
func MemoryUsage() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}

// MemoryAllocs returns the cumulative heap allocation count.
func MemoryAllocs() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.Mallocs
}

func NumGoroutine() int { return runtime.NumGoroutine() }
func NumCPU() int       { return runtime.NumCPU() }
