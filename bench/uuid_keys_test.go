package lptable_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/theflywheel/lptable"
	"github.com/theflywheel/lptable/internal/bench"
)

// BenchmarkUUIDKeys inserts, retrieves and validates UUID keys with
// string-sequence values, then removes half of them.
func BenchmarkUUIDKeys(b *testing.B) {
	b.N = 1
	b.ResetTimer()
	b.StopTimer()

	numKeys := 100_000
	metrics := bench.Metrics{
		Name:       "UUIDKeys",
		Category:   "scale",
		Operations: numKeys,
		Metrics:    make(map[string]float64),
	}

	keys := make([]string, numKeys)
	for i := range keys {
		keys[i] = uuid.NewString()
	}

	tbl, err := lptable.New(1024, 0.75)
	if err != nil {
		b.Fatalf("Failed to create table: %v", err)
	}

	b.StartTimer()
	start := time.Now()
	for _, k := range keys {
		if !tbl.Put(k, lptable.Strings{k[:8], k[9:13]}) {
			b.Fatalf("Failed to insert %s", k)
		}
	}
	b.StopTimer()
	insertTime := time.Since(start)
	metrics.Metrics["insertion_rate"] = float64(numKeys) / insertTime.Seconds()
	b.Logf("Inserted %d UUID keys in %v (%s)", numKeys, insertTime, getMemoryUsage())

	b.StartTimer()
	start = time.Now()
	for _, k := range keys {
		v, ok := tbl.Get(k)
		if !ok || !lptable.Equal(v, lptable.Strings{k[:8], k[9:13]}) {
			b.Fatalf("Validation failed for %s", k)
		}
	}
	b.StopTimer()
	metrics.Metrics["lookup_rate"] = float64(numKeys) / time.Since(start).Seconds()

	b.StartTimer()
	start = time.Now()
	removed := 0
	for _, k := range keys[:numKeys/2] {
		if tbl.Remove(k) {
			removed++
		}
	}
	b.StopTimer()
	metrics.Metrics["removal_rate"] = float64(removed) / time.Since(start).Seconds()
	metrics.Metrics["tombstones"] = float64(tbl.Stats().Tombstones)

	if err := saveBenchmarkResult(metrics, "latest.json"); err != nil {
		b.Logf("Failed to save benchmark result to latest.json: %v", err)
	}
}
