package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/theflywheel/lptable/internal/bench"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a workload and append its metrics to the report file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bench.LoadConfig(opts.config, cmd.Flags())
			if err != nil {
				return err
			}

			var logger *log.Logger
			if opts.verbose {
				logger = log.New(os.Stderr, "lptbench: ", log.LstdFlags)
			}

			res, err := bench.Run(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("run %s: %w", cfg.Name, err)
			}

			metrics := bench.NewMetrics(res)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d keys, %d workers\n", metrics.Name, res.Inserted, cfg.Workers)
			fmt.Fprintf(out, "  insertion_rate %.0f keys/sec\n", metrics.Metrics["insertion_rate"])
			fmt.Fprintf(out, "  lookup_rate    %.0f lookups/sec\n", metrics.Metrics["lookup_rate"])
			if res.Removed > 0 {
				fmt.Fprintf(out, "  removal_rate   %.0f removals/sec\n", metrics.Metrics["removal_rate"])
			}
			fmt.Fprintf(out, "  final size %d, capacity %d, tombstones %d\n", res.Stats.Count, res.Stats.Capacity, res.Stats.Tombstones)
			if res.LookupFails > 0 {
				fmt.Fprintf(out, "  %d lookups did not return the inserted value\n", res.LookupFails)
			}

			if cfg.Output == "" {
				return nil
			}
			if err := bench.SaveResult(metrics, cfg.Output); err != nil {
				return err
			}
			fmt.Fprintf(out, "Benchmark results saved to: %s\n", cfg.Output)
			return nil
		},
	}

	def := bench.DefaultConfig()
	f := runCmd.Flags()
	f.String("name", def.Name, "benchmark name recorded in the report")
	f.Int("workers", def.Workers, "number of concurrent goroutines")
	f.Int("keys-per-worker", def.KeysPerWorker, "unique keys inserted by each worker")
	f.Int("capacity", def.Capacity, "initial table capacity")
	f.Float64("load-factor", def.LoadFactor, "table load factor, in (0, 1)")
	f.String("key-kind", def.KeyKind, "key generator: seq or uuid")
	f.String("value-kind", def.ValueKind, "value variant: string, int32 or floats")
	f.Float64("remove-ratio", def.RemoveRatio, "share of each worker's keys removed after lookups")
	f.String("output", def.Output, "report file to merge results into; empty disables")
	return runCmd
}
