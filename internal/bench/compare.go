package bench

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
)

// DefaultThreshold is the percent change at which a metric delta counts as
// significant.
const DefaultThreshold = 5.0

// Assessments.
const (
	Regression  = "REGRESSION"
	Improvement = "IMPROVEMENT"
	Neutral     = "NEUTRAL"
)

// MetricComparison represents a comparison between two metric values
type MetricComparison struct {
	Name          string  `json:"name"`
	BaseValue     float64 `json:"base_value"`
	CurrentValue  float64 `json:"current_value"`
	PercentChange float64 `json:"percent_change"`
	IsRegression  bool    `json:"is_regression"`
	IsImprovement bool    `json:"is_improvement"`
	IsSignificant bool    `json:"is_significant"`
	IsConfig      bool    `json:"is_config,omitempty"`
}

// BenchmarkComparison represents a comparison between benchmark results
type BenchmarkComparison struct {
	Name              string             `json:"name"`
	Category          string             `json:"category"`
	MetricComparisons []MetricComparison `json:"metric_comparisons"`
	OverallAssessment string             `json:"overall_assessment"`
	HasRegressions    bool               `json:"has_regressions"`
	Score             float64            `json:"score"`
}

// Comparison represents the overall benchmark comparison result
type Comparison struct {
	BaseCommit             string                `json:"base_commit"`
	CurrentCommit          string                `json:"current_commit"`
	TotalBenchmarks        int                   `json:"total_benchmarks"`
	ImprovedBenchmarks     int                   `json:"improved_benchmarks"`
	RegressionBenchmarks   int                   `json:"regression_benchmarks"`
	SignificantRegressions int                   `json:"significant_regressions"`
	BenchmarkComparisons   []BenchmarkComparison `json:"benchmark_comparisons"`
}

// Compare matches current results to base results by name. Benchmarks only
// present on one side are skipped. The returned comparisons are sorted
// with regressions first, then by ascending score.
func Compare(base, current Summary, threshold float64) Comparison {
	baseResults := make(map[string]Metrics, len(base.Results))
	for _, r := range base.Results {
		baseResults[r.Name] = r
	}

	out := Comparison{
		BaseCommit:    base.CommitID,
		CurrentCommit: current.CommitID,
	}

	for _, cur := range current.Results {
		b, found := baseResults[cur.Name]
		if !found {
			continue
		}

		bc := BenchmarkComparison{
			Name:              cur.Name,
			Category:          cur.Category,
			MetricComparisons: []MetricComparison{},
		}

		score := 0.0
		n := 0
		names := make([]string, 0, len(cur.Metrics))
		for name := range cur.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			baseValue, ok := b.Metrics[name]
			if !ok {
				continue
			}
			mc := compareMetric(name, baseValue, cur.Metrics[name], threshold)
			bc.MetricComparisons = append(bc.MetricComparisons, mc)
			if mc.IsConfig {
				continue
			}
			if mc.IsRegression && mc.IsSignificant {
				bc.HasRegressions = true
			}
			if mc.IsImprovement {
				score += math.Abs(mc.PercentChange)
			} else if mc.IsRegression {
				score -= math.Abs(mc.PercentChange)
			}
			n++
		}
		if n > 0 {
			bc.Score = score / float64(n)
		}

		switch {
		case bc.HasRegressions:
			bc.OverallAssessment = Regression
			out.RegressionBenchmarks++
			out.SignificantRegressions++
		case bc.Score > 0:
			bc.OverallAssessment = Improvement
			out.ImprovedBenchmarks++
		default:
			bc.OverallAssessment = Neutral
		}

		out.BenchmarkComparisons = append(out.BenchmarkComparisons, bc)
	}

	sort.SliceStable(out.BenchmarkComparisons, func(i, j int) bool {
		a, b := out.BenchmarkComparisons[i], out.BenchmarkComparisons[j]
		if a.HasRegressions != b.HasRegressions {
			return a.HasRegressions
		}
		return a.Score < b.Score
	})
	out.TotalBenchmarks = len(out.BenchmarkComparisons)
	return out
}

func compareMetric(name string, base, current, threshold float64) MetricComparison {
	mc := MetricComparison{
		Name:         name,
		BaseValue:    base,
		CurrentValue: current,
	}
	if configMetrics[name] {
		mc.IsConfig = true
		return mc
	}
	if base == 0 {
		// No percentage exists; any move away from zero is significant.
		if current == 0 {
			return mc
		}
		better := (current > 0) == isHigherBetter(name)
		mc.IsImprovement = better
		mc.IsRegression = !better
		mc.IsSignificant = true
		return mc
	}
	mc.PercentChange = (current - base) / base * 100
	if isHigherBetter(name) {
		mc.IsRegression = mc.PercentChange < 0
		mc.IsImprovement = mc.PercentChange > 0
	} else {
		mc.IsRegression = mc.PercentChange > 0
		mc.IsImprovement = mc.PercentChange < 0
	}
	mc.IsSignificant = math.Abs(mc.PercentChange) >= threshold
	return mc
}

// configMetrics describe the workload or the table shape rather than its
// performance. They are reported but never scored.
var configMetrics = map[string]bool{
	"workers":    true,
	"capacity":   true,
	"final_size": true,
}

// isHigherBetter reports whether a larger value of the metric is better.
// Everything else (ns/op, memory, tombstones, misses) is lower-is-better.
func isHigherBetter(name string) bool {
	for _, pattern := range []string{"_rate", "ops_per_sec", "operations", "throughput"} {
		if strings.Contains(name, pattern) {
			return true
		}
	}
	return false
}

// PrintComparison writes a human-readable report of c to w.
func PrintComparison(w io.Writer, c Comparison) {
	fmt.Fprintf(w, "Benchmark Comparison: %s vs %s\n\n", truncate(c.BaseCommit, 8), truncate(c.CurrentCommit, 8))
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "- Total benchmarks compared: %d\n", c.TotalBenchmarks)
	fmt.Fprintf(w, "- Improvements: %d\n", c.ImprovedBenchmarks)
	fmt.Fprintf(w, "- Regressions: %d (significant: %d)\n\n", c.RegressionBenchmarks, c.SignificantRegressions)

	if c.TotalBenchmarks == 0 {
		fmt.Fprintln(w, "No matching benchmarks found for comparison")
		return
	}

	fmt.Fprintln(w, "Benchmark Details (sorted by impact):")
	for _, bc := range c.BenchmarkComparisons {
		fmt.Fprintf(w, "\n[%s] %s (%s):\n", bc.OverallAssessment, bc.Name, bc.Category)

		metrics := append([]MetricComparison(nil), bc.MetricComparisons...)
		sort.SliceStable(metrics, func(i, j int) bool {
			return math.Abs(metrics[i].PercentChange) > math.Abs(metrics[j].PercentChange)
		})
		for _, m := range metrics {
			if m.BaseValue == m.CurrentValue {
				continue
			}
			marker := " "
			if m.IsSignificant && m.IsRegression {
				marker = "-"
			} else if m.IsSignificant && m.IsImprovement {
				marker = "+"
			}
			switch {
			case m.IsConfig:
				fmt.Fprintf(w, "  %s %-20s: %9s (%g -> %g)\n", marker, m.Name, "config", m.BaseValue, m.CurrentValue)
			case m.BaseValue == 0:
				fmt.Fprintf(w, "  %s %-20s: %9s (%g -> %g)\n", marker, m.Name, "from zero", m.BaseValue, m.CurrentValue)
			default:
				fmt.Fprintf(w, "  %s %-20s: %+8.2f%% (%g -> %g)\n", marker, m.Name, m.PercentChange, m.BaseValue, m.CurrentValue)
			}
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
