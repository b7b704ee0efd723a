//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binDir     = "bin"
	benchTool  = "bin/lptbench"
	historyDir = "benchmark_history"
)

// Default target when mage is run without arguments.
var Default = Check

// Check runs vet followed by the unit tests.
func Check() {
	mg.SerialDeps(Vet, Test.Unit)
}

// Test groups test targets.
type Test mg.Namespace

// Unit runs the unit tests of every package.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "./...")
}

// Race runs the unit tests with the race detector.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Vet runs go vet, which also catches copied Tables (copylocks).
func Vet() error {
	return sh.RunV(binGo, "vet", "./...")
}

// Build compiles the lptbench tool into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-o", benchTool, "./cmd/lptbench")
}

// Bench runs the scale benchmarks, which merge results into
// benchmark_history/latest.json.
func Bench() error {
	if err := os.MkdirAll(historyDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "test", "-run", "^$", "-bench", ".", "-benchtime", "1x", "./bench/...")
}

// Load runs the default concurrent workload through lptbench.
func Load() error {
	mg.Deps(Build)
	return sh.RunV(benchTool, "run", "--verbose", "--output", historyDir+"/latest.json")
}

// Compare compares benchmark_history/baseline.json against latest.json.
func Compare() error {
	mg.Deps(Build)
	base := historyDir + "/baseline.json"
	if _, err := os.Stat(base); os.IsNotExist(err) {
		fmt.Println("No baseline found; copy latest.json to baseline.json first.")
		return nil
	}
	return sh.RunV(benchTool, "compare", base, historyDir+"/latest.json")
}
