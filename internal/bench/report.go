package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sugawarayuuta/sonnet"
)

// Metrics represents metrics for a single benchmark
type Metrics struct {
	Name       string             `json:"name"`
	Category   string             `json:"category"`
	Operations int                `json:"operations"`
	NsPerOp    float64            `json:"ns_per_op"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Summary represents all benchmark results of one report file
type Summary struct {
	Timestamp string    `json:"timestamp"`
	CommitID  string    `json:"commit_id"`
	Branch    string    `json:"branch"`
	GoVersion string    `json:"go_version"`
	Results   []Metrics `json:"results"`
}

// NewMetrics converts a Result into report metrics.
func NewMetrics(res Result) Metrics {
	ops := res.Inserted + res.Inserted + res.Removed
	total := res.InsertTime + res.LookupTime + res.RemoveTime

	m := Metrics{
		Name:       res.Config.Name,
		Category:   "concurrency",
		Operations: ops,
		Metrics: map[string]float64{
			"workers":       float64(res.Config.Workers),
			"final_size":    float64(res.Stats.Count),
			"capacity":      float64(res.Stats.Capacity),
			"tombstones":    float64(res.Stats.Tombstones),
			"alloc_mb":      res.AllocMB,
			"lookup_misses": float64(res.LookupFails),
		},
	}
	if ops > 0 {
		m.NsPerOp = float64(total.Nanoseconds()) / float64(ops)
	}
	if s := res.InsertTime.Seconds(); s > 0 {
		m.Metrics["insertion_rate"] = float64(res.Inserted) / s
	}
	if s := res.LookupTime.Seconds(); s > 0 {
		m.Metrics["lookup_rate"] = float64(res.Inserted) / s
	}
	if s := res.RemoveTime.Seconds(); s > 0 {
		m.Metrics["removal_rate"] = float64(res.Removed) / s
	}
	return m
}

// LoadSummary reads a report file.
func LoadSummary(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("read %s: %w", path, err)
	}
	var s Summary
	if err := sonnet.Unmarshal(data, &s); err != nil {
		return Summary{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// SaveResult merges metrics into the summary stored at path, creating the
// file and its directory when missing. A result with the same name is
// replaced in place. An unreadable existing file is replaced.
func SaveResult(metrics Metrics, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	commitID, branch := gitInfo(filepath.Dir(path))
	summary := Summary{
		Timestamp: time.Now().Format(time.RFC3339),
		CommitID:  commitID,
		Branch:    branch,
		GoVersion: runtime.Version(),
		Results:   []Metrics{metrics},
	}

	if existing, err := LoadSummary(path); err == nil {
		summary.Results = mergeResult(existing.Results, metrics)
	}

	data, err := sonnet.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}
	return nil
}

// mergeResult replaces the first result named like m and drops any later
// ones, or appends m when none matches.
func mergeResult(results []Metrics, m Metrics) []Metrics {
	out := results[:0]
	replaced := false
	for _, r := range results {
		if r.Name != m.Name {
			out = append(out, r)
			continue
		}
		if !replaced {
			out = append(out, m)
			replaced = true
		}
	}
	if !replaced {
		out = append(out, m)
	}
	return out
}

// gitInfo walks up from dir looking for .git/HEAD and returns the short
// commit ID and branch, or "local"/"dev" when none is found.
func gitInfo(dir string) (commitID, branch string) {
	commitID, branch = "local", "dev"

	abs, err := filepath.Abs(dir)
	if err != nil {
		return commitID, branch
	}
	for {
		head, err := os.ReadFile(filepath.Join(abs, ".git", "HEAD"))
		if err == nil {
			content := strings.TrimSpace(string(head))
			if ref, ok := strings.CutPrefix(content, "ref: "); ok {
				branch = strings.TrimPrefix(ref, "refs/heads/")
				if data, err := os.ReadFile(filepath.Join(abs, ".git", ref)); err == nil {
					commitID = strings.TrimSpace(string(data))
				}
			} else if content != "" {
				commitID = content
			}
			if len(commitID) > 8 {
				commitID = commitID[:8]
			}
			return commitID, branch
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return commitID, branch
		}
		abs = parent
	}
}
