package lptable_test

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/theflywheel/lptable/internal/bench"
)

// getMemoryUsage returns the current memory stats as a formatted string
func getMemoryUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return fmt.Sprintf("Memory: Alloc=%.1fMB Sys=%.1fMB",
		float64(m.Alloc)/1024/1024,
		float64(m.Sys)/1024/1024)
}

// allocMB returns the live heap in megabytes
func allocMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.Alloc) / (1024 * 1024)
}

// saveBenchmarkResult merges metrics into ../benchmark_history/<resultsFile>
func saveBenchmarkResult(metrics bench.Metrics, resultsFile string) error {
	return bench.SaveResult(metrics, filepath.Join("..", "benchmark_history", resultsFile))
}
