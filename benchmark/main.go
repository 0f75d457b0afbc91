// Package main provides a performance benchmarking tool for the chartdeck CLI.
// It times page renders and site builds against an artifact source, once without
// render tracking and once with SQLite tracking, and writes the averages to CSV.
//
// Prerequisites:
// - chartdeck binary installed and available in PATH
// - An artifact source: a directory or http(s) URL serving data/charts/*.toml
//
// Usage: go run benchmark/main.go [source]
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the averages of one command under both tracking modes.
type BenchmarkResult struct {
	Command      string
	UntrackedAvg string
	TrackedAvg   string
	Failures     int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Source  string
	Timeout time.Duration
	Runs    int
	Pages   []string
	DBPath  string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [source]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Source:  os.Args[1],
		Timeout: time.Minute,
		Runs:    5,
		Pages:   []string{"overview", "analysis", "data", "modeling"},
		DBPath:  filepath.Join(os.TempDir(), "chartdeck_benchmark_runs.db"),
	}

	if _, err := exec.LookPath("chartdeck"); err != nil {
		fmt.Println("Prerequisites check failed: chartdeck binary not found in PATH")
		os.Exit(1)
	}
	_ = os.Remove(config.DBPath)

	results := runBenchmarks(config)
	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}
	printSummary(results)
}

// runBenchmarks times every page render and one site build.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	fmt.Printf("Starting benchmark: source %s, %d runs per mode, %v timeout\n", config.Source, config.Runs, config.Timeout)

	var results []BenchmarkResult
	for _, page := range config.Pages {
		results = append(results, runBenchmarkSuite(config, "render "+page, []string{"render", page, "--output", "json"}))
	}

	outDir, err := os.MkdirTemp("", "chartdeck-benchmark-site-*")
	if err != nil {
		fmt.Printf("Warning: skipping build benchmark: %v\n", err)
		return results
	}
	defer func() { _ = os.RemoveAll(outDir) }()
	results = append(results, runBenchmarkSuite(config, "build", []string{"build", "--out-dir", outDir}))
	return results
}

// runBenchmarkSuite runs a command without and with render tracking.
func runBenchmarkSuite(config BenchmarkConfig, name string, args []string) BenchmarkResult {
	fmt.Printf("Running %s\n", name)
	untracked, failedA := runBenchmark(config, args, "none")
	tracked, failedB := runBenchmark(config, args, "sqlite")
	fmt.Printf("  untracked: %s, tracked: %s\n", untracked, tracked)
	return BenchmarkResult{
		Command:      name,
		UntrackedAvg: untracked,
		TrackedAvg:   tracked,
		Failures:     failedA + failedB,
	}
}

// runBenchmark executes the command config.Runs times and returns the average duration.
func runBenchmark(config BenchmarkConfig, args []string, backend string) (string, int) {
	full := append([]string{}, args...)
	full = append(full, "--source", config.Source, "--run-backend", backend)
	if backend == "sqlite" {
		full = append(full, "--run-db-connect", config.DBPath)
	}

	var times []float64
	failures := 0
	for range config.Runs {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "chartdeck", full...).CombinedOutput()
		elapsed := time.Since(start)
		cancel()

		if err != nil || !isSuccess(output) {
			failures++
			continue
		}
		times = append(times, elapsed.Seconds())
	}

	if len(times) == 0 {
		return "FAILED", failures
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times))), failures
}

// isSuccess checks that the command produced a page or a site.
func isSuccess(output []byte) bool {
	out := string(output)
	return strings.Contains(out, `"charts"`) || strings.Contains(out, "Wrote")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("chartdeck_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"cmd", "untracked_avg", "tracked_avg", "failures"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Command, r.UntrackedAvg, r.TrackedAvg, fmt.Sprint(r.Failures)}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, r := range results {
		fmt.Printf("  %-18s: untracked: %s, tracked: %s, failures: %d\n", r.Command, r.UntrackedAvg, r.TrackedAvg, r.Failures)
	}
}
