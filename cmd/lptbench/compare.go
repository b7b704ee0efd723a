package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"

	"github.com/theflywheel/lptable/internal/bench"
)

func newCompareCmd() *cobra.Command {
	var (
		threshold float64
		jsonOut   string
	)
	compareCmd := &cobra.Command{
		Use:   "compare <base.json> <current.json>",
		Short: "Compare two reports and fail on significant regressions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := bench.LoadSummary(args[0])
			if err != nil {
				return err
			}
			current, err := bench.LoadSummary(args[1])
			if err != nil {
				return err
			}

			c := bench.Compare(base, current, threshold)
			bench.PrintComparison(cmd.OutOrStdout(), c)

			if jsonOut != "" {
				data, err := sonnet.MarshalIndent(c, "", "  ")
				if err != nil {
					return fmt.Errorf("error creating comparison JSON: %w", err)
				}
				if err := os.WriteFile(jsonOut, data, 0644); err != nil {
					return fmt.Errorf("error writing comparison file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Comparison JSON written to %s\n", jsonOut)
			}

			if c.SignificantRegressions > 0 {
				return fmt.Errorf("%d significant performance regressions detected", c.SignificantRegressions)
			}
			return nil
		},
	}

	compareCmd.Flags().Float64Var(&threshold, "threshold", bench.DefaultThreshold, "percent change counted as significant")
	compareCmd.Flags().StringVar(&jsonOut, "json-out", "benchmark-comparison.json", "write the comparison as JSON; empty disables")
	return compareCmd
}
