package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult represents a parsed benchmark result.
type BenchmarkResult struct {
	Name        string
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

// ComparisonResult pairs the baseline and current runs of one benchmark.
type ComparisonResult struct {
	Name        string
	BaselineNs  float64
	CurrentNs   float64
	Speedup     float64
	BaselineMem int64
	CurrentMem  int64
	CurrentOnly bool
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Benchmark output to report on (stdin if not specified)",
	)
	baselineFile = flag.String("baseline", "", "Earlier benchmark output to compare against")
	outputFile   = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet        = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	current, err := parseFile(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(current))
	}

	var report string
	if *baselineFile != "" {
		baseline, err := parseFile(*baselineFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading baseline: %v\n", err)
			os.Exit(1)
		}
		comparisons := generateComparisons(baseline, current)
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Generated %d comparisons\n", len(comparisons))
		}
		report = generateComparisonReport(comparisons)
	} else {
		report = generateReport(current)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(report), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
		}
	} else {
		fmt.Fprint(os.Stdout, report)
	}
}

func parseFile(path string) ([]BenchmarkResult, error) {
	if path == "" {
		return parseBenchmarks(bufio.NewScanner(os.Stdin)), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseBenchmarks(bufio.NewScanner(f)), nil
}

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	// Regex to parse benchmark output lines
	// BenchmarkAllocateDeallocate-8    500000    2450 ns/op    32 B/op    1 allocs/op
	benchmarkRegex := regexp.MustCompile(
		`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+B/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
	)

	for scanner.Scan() {
		line := scanner.Text()

		// Try to parse as JSON (from -json flag)
		var testEvent map[string]any
		if err := json.Unmarshal([]byte(line), &testEvent); err == nil {
			if output, ok := testEvent["Output"].(string); ok {
				line = output
			}
		}

		matches := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		iterations, _ := strconv.Atoi(matches[2])
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)

		var bytesPerOp, allocsPerOp int64
		if matches[4] != "" {
			bytesPerOp, _ = strconv.ParseInt(matches[4], 10, 64)
		}
		if matches[5] != "" {
			allocsPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
		}

		results = append(results, BenchmarkResult{
			Name:        normalizeName(matches[1]),
			Iterations:  iterations,
			NsPerOp:     nsPerOp,
			BytesPerOp:  bytesPerOp,
			AllocsPerOp: allocsPerOp,
		})
	}

	return results
}

// normalizeName strips the -N GOMAXPROCS suffix so runs on different
// machines still line up.
func normalizeName(name string) string {
	if idx := strings.LastIndex(name, "-"); idx > 0 {
		if _, err := strconv.Atoi(name[idx+1:]); err == nil {
			return name[:idx]
		}
	}
	return name
}

func generateComparisons(baseline, current []BenchmarkResult) []ComparisonResult {
	base := make(map[string]BenchmarkResult, len(baseline))
	for _, r := range baseline {
		base[r.Name] = r
	}

	var comparisons []ComparisonResult
	for _, cur := range current {
		old, ok := base[cur.Name]
		if !ok {
			comparisons = append(comparisons, ComparisonResult{
				Name:        cur.Name,
				CurrentNs:   cur.NsPerOp,
				CurrentMem:  cur.BytesPerOp,
				CurrentOnly: true,
			})
			continue
		}
		comparisons = append(comparisons, ComparisonResult{
			Name:        cur.Name,
			BaselineNs:  old.NsPerOp,
			CurrentNs:   cur.NsPerOp,
			Speedup:     old.NsPerOp / cur.NsPerOp,
			BaselineMem: old.BytesPerOp,
			CurrentMem:  cur.BytesPerOp,
		})
	}

	sort.Slice(comparisons, func(i, j int) bool {
		return comparisons[i].Name < comparisons[j].Name
	})
	return comparisons
}

func generateReport(results []BenchmarkResult) string {
	var sb strings.Builder

	sb.WriteString("# Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	sorted := make([]BenchmarkResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	sb.WriteString("| Benchmark | Iterations | ns/op | B/op | allocs/op |\n")
	sb.WriteString("|-----------|------------|-------|------|-----------|\n")
	for _, r := range sorted {
		sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %d |\n",
			strings.TrimPrefix(r.Name, "Benchmark"),
			r.Iterations,
			formatNumber(r.NsPerOp),
			formatBytes(r.BytesPerOp),
			r.AllocsPerOp,
		))
	}
	sb.WriteString("\n")
	return sb.String()
}

func generateComparisonReport(comparisons []ComparisonResult) string {
	var sb strings.Builder

	sb.WriteString("# Benchmark Comparison\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	// Summary statistics
	faster, slower, newOnly := 0, 0, 0
	totalSpeedup := 0.0
	for _, comp := range comparisons {
		if comp.CurrentOnly {
			newOnly++
			continue
		}
		if comp.Speedup > 1.0 {
			faster++
		} else if comp.Speedup < 1.0 {
			slower++
		}
		totalSpeedup += comp.Speedup
	}

	comparableCount := len(comparisons) - newOnly
	avgSpeedup := 0.0
	if comparableCount > 0 {
		avgSpeedup = totalSpeedup / float64(comparableCount)
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Total benchmarks**: %d\n", len(comparisons)))
	sb.WriteString(fmt.Sprintf("- **Comparable** (both runs): %d\n", comparableCount))
	sb.WriteString(fmt.Sprintf("  - faster than baseline: %d\n", faster))
	sb.WriteString(fmt.Sprintf("  - slower than baseline: %d\n", slower))
	sb.WriteString(fmt.Sprintf("  - Average speedup: **%.2fx**\n", avgSpeedup))
	sb.WriteString(fmt.Sprintf("- **New benchmarks**: %d\n", newOnly))
	sb.WriteString("\n")

	sb.WriteString("## Detailed Results\n\n")
	sb.WriteString("| Benchmark | Baseline (ns/op) | Current (ns/op) | Speedup | Memory (B/op) |\n")
	sb.WriteString("|-----------|------------------|-----------------|---------|---------------|\n")

	for _, comp := range comparisons {
		name := strings.TrimPrefix(comp.Name, "Benchmark")
		if comp.CurrentOnly {
			sb.WriteString(fmt.Sprintf("| %s | *N/A* | %s | *new* | %s |\n",
				name,
				formatNumber(comp.CurrentNs),
				formatBytes(comp.CurrentMem),
			))
			continue
		}

		indicator := "✓"
		if comp.Speedup < 1.0 {
			indicator = "✗"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.2fx %s | %s vs %s |\n",
			name,
			formatNumber(comp.BaselineNs),
			formatNumber(comp.CurrentNs),
			comp.Speedup,
			indicator,
			formatBytes(comp.BaselineMem),
			formatBytes(comp.CurrentMem),
		))
	}

	sb.WriteString("\n## Notes\n\n")
	sb.WriteString("- **Speedup > 1.0**: the current run is faster ✓\n")
	sb.WriteString("- **Speedup < 1.0**: the current run is slower ✗\n")
	sb.WriteString("- **Memory comparison**: Lower is better\n")

	return sb.String()
}

func formatNumber(n float64) string {
	if n >= 1000000 {
		return fmt.Sprintf("%.2fM", n/1000000)
	} else if n >= 1000 {
		return fmt.Sprintf("%.1fK", n/1000)
	}
	return fmt.Sprintf("%.0f", n)
}

func formatBytes(b int64) string {
	if b >= 1024*1024 {
		return fmt.Sprintf("%.2fMB", float64(b)/(1024*1024))
	} else if b >= 1024 {
		return fmt.Sprintf("%.1fKB", float64(b)/1024)
	}
	return fmt.Sprintf("%dB", b)
}
