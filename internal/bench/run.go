package bench

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theflywheel/lptable"
)

// Result holds the measurements of one Run.
type Result struct {
	Config      Config
	Inserted    int
	Removed     int
	InsertTime  time.Duration
	LookupTime  time.Duration
	RemoveTime  time.Duration
	Stats       lptable.Stats
	AllocMB     float64
	LookupFails int
}

// Run executes the workload described by cfg: concurrent inserts of unique
// keys, concurrent verifying lookups, then an optional concurrent removal
// of cfg.RemoveRatio of the keys. ctx is checked between phases.
func Run(ctx context.Context, cfg Config, logger *log.Logger) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	var opts []lptable.Option
	if logger != nil {
		opts = append(opts, lptable.WithLogger(logger))
	}
	tbl, err := lptable.New(cfg.Capacity, cfg.LoadFactor, opts...)
	if err != nil {
		return Result{}, err
	}

	keys := generateKeys(cfg)
	res := Result{Config: cfg}

	logf(logger, "Starting insertion of %d keys with %d workers...", cfg.Workers*cfg.KeysPerWorker, cfg.Workers)
	var failed int
	res.InsertTime = parallel(cfg.Workers, func(w int) int {
		n := 0
		for i, k := range keys[w] {
			if !tbl.Put(k, makeValue(cfg.ValueKind, w, i)) {
				n++
			}
		}
		return n
	}, &failed)
	if failed > 0 {
		return res, fmt.Errorf("%d inserts failed", failed)
	}
	res.Inserted = tbl.Size()
	logf(logger, "Time to insert %d keys: %v", res.Inserted, res.InsertTime)

	if err := ctx.Err(); err != nil {
		return res, err
	}

	res.LookupTime = parallel(cfg.Workers, func(w int) int {
		n := 0
		for i, k := range keys[w] {
			v, ok := tbl.Get(k)
			if !ok || !lptable.Equal(v, makeValue(cfg.ValueKind, w, i)) {
				n++
			}
		}
		return n
	}, &res.LookupFails)
	logf(logger, "Time to verify %d keys: %v (%d mismatches)", res.Inserted, res.LookupTime, res.LookupFails)

	if err := ctx.Err(); err != nil {
		return res, err
	}

	if cfg.RemoveRatio > 0 {
		perWorker := int(float64(cfg.KeysPerWorker) * cfg.RemoveRatio)
		var misses int
		res.RemoveTime = parallel(cfg.Workers, func(w int) int {
			n := 0
			for _, k := range keys[w][:perWorker] {
				if !tbl.Remove(k) {
					n++
				}
			}
			return n
		}, &misses)
		res.Removed = cfg.Workers*perWorker - misses
		logf(logger, "Time to remove %d keys: %v", res.Removed, res.RemoveTime)
	}

	res.Stats = tbl.Stats()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	res.AllocMB = float64(m.Alloc) / (1024 * 1024)

	return res, nil
}

// parallel runs fn for each worker index and returns the wall time. The
// per-worker counts returned by fn are summed into total.
func parallel(workers int, fn func(w int) int, total *int) time.Duration {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	start := time.Now()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			n := fn(w)
			mu.Lock()
			*total += n
			mu.Unlock()
		}(w)
	}
	wg.Wait()
	return time.Since(start)
}

// generateKeys returns one slice of globally unique keys per worker.
func generateKeys(cfg Config) [][]string {
	keys := make([][]string, cfg.Workers)
	for w := range keys {
		keys[w] = make([]string, cfg.KeysPerWorker)
		for i := range keys[w] {
			switch cfg.KeyKind {
			case KeysUUID:
				keys[w][i] = uuid.NewString()
			default:
				keys[w][i] = "key" + strconv.Itoa(w) + "_" + strconv.Itoa(i)
			}
		}
	}
	return keys
}

func makeValue(kind string, w, i int) lptable.Value {
	switch kind {
	case ValuesInt32:
		return lptable.Int32(int32(w*1_000_000 + i))
	case ValuesFloats:
		return lptable.Floats{float64(w), float64(i), float64(w*i) / 2}
	default:
		return lptable.String("value" + strconv.Itoa(w) + "_" + strconv.Itoa(i))
	}
}

func logf(logger *log.Logger, format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}
