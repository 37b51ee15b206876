package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ChnjFan/mempool/pool"
	"github.com/spf13/cobra"
)

var (
	stressWorkers int
	stressOps     int
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressWorkers, "workers", 8, "Concurrent workers")
	cmd.Flags().IntVar(&stressOps, "ops", 10000, "Operations per worker")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Hammer the pool from many goroutines",
		Long: `The stress command runs mixed random allocate/free traffic from several
workers at once. Exhaustion failures are counted rather than fatal, so the
command doubles as a capacity probe: rising failure counts mean the workers
hold more than the pool can serve.

Example:
  poolctl stress
  poolctl stress --workers 16 --ops 50000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
	return cmd
}

type stressResult struct {
	Allocs   int `json:"allocs"`
	Failures int `json:"failures"`
}

func runStress() error {
	if stressWorkers < 1 {
		return fmt.Errorf("need at least 1 worker, got %d", stressWorkers)
	}
	if stressOps < 1 {
		return fmt.Errorf("need at least 1 operation per worker, got %d", stressOps)
	}

	m, err := pool.NewManager(pool.DefaultConfig, pool.WithLogger(newLogger()))
	if err != nil {
		return fmt.Errorf("failed to build pool: %w", err)
	}
	defer m.Close()

	printVerbose("Starting %d workers x %d operations\n", stressWorkers, stressOps)

	results := make([]stressResult, stressWorkers)
	var wg sync.WaitGroup
	start := time.Now()
	for w := range stressWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(w + 1)))
			held := make([][]byte, 0, 32)
			res := &results[w]
			for range stressOps {
				// Even odds of freeing something already held.
				if len(held) > 0 && rng.Intn(2) == 0 {
					idx := rng.Intn(len(held))
					_ = m.Deallocate(held[idx])
					held[idx] = held[len(held)-1]
					held = held[:len(held)-1]
					continue
				}
				size := 16 << rng.Intn(10) // 16 B to 8 KiB
				p, err := m.Allocate(size)
				if err != nil {
					res.Failures++
					continue
				}
				res.Allocs++
				held = append(held, p)
			}
			for _, p := range held {
				_ = m.Deallocate(p)
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	var total stressResult
	for _, r := range results {
		total.Allocs += r.Allocs
		total.Failures += r.Failures
	}
	s := m.Statistics()

	if jsonOut {
		return printJSON(map[string]interface{}{
			"workers":    stressWorkers,
			"ops":        stressOps,
			"elapsed_ns": elapsed.Nanoseconds(),
			"allocs":     total.Allocs,
			"failures":   total.Failures,
			"per_worker": results,
			"used_bytes": s.TotalUsed,
		})
	}

	printInfo("\n%d workers x %d operations in %s\n",
		stressWorkers, stressOps, elapsed.Round(time.Millisecond))
	printInfo("  %d allocations, %d failures\n", total.Allocs, total.Failures)
	for w, r := range results {
		printVerbose("  worker %2d: %6d allocs, %6d failures\n", w, r.Allocs, r.Failures)
	}
	printInfo("  In use after drain: %s\n", formatBytes(int64(s.TotalUsed)))
	return nil
}
