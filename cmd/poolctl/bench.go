package main

import (
	"fmt"
	"time"

	"github.com/ChnjFan/mempool/pool"
	"github.com/spf13/cobra"
)

var (
	benchIterations int
	benchSize       int
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&benchIterations, "iterations", 100000, "Allocate/free cycles to run")
	cmd.Flags().IntVar(&benchSize, "size", 1024, "Bytes per allocation")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure allocate/free throughput",
		Long: `The bench command runs a tight allocate/free loop of a fixed size
against a standard pool and reports wall time, cycles per second, and
nanoseconds per cycle.

Example:
  poolctl bench
  poolctl bench --iterations 1000000 --size 4096`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
	return cmd
}

func runBench() error {
	if benchIterations < 1 {
		return fmt.Errorf("need at least 1 iteration, got %d", benchIterations)
	}
	if benchSize < 1 {
		return fmt.Errorf("need a positive allocation size, got %d", benchSize)
	}

	m, err := pool.NewManager(pool.DefaultConfig, pool.WithLogger(newLogger()))
	if err != nil {
		return fmt.Errorf("failed to build pool: %w", err)
	}
	defer m.Close()

	// Warm the route once so the timed loop measures steady state.
	p, err := m.Allocate(benchSize)
	if err != nil {
		return fmt.Errorf("warmup allocation of %d bytes: %w", benchSize, err)
	}
	if err := m.Deallocate(p); err != nil {
		return fmt.Errorf("warmup free: %w", err)
	}

	printVerbose("Running %d cycles of %s\n", benchIterations, formatBytes(int64(benchSize)))

	start := time.Now()
	for i := range benchIterations {
		p, err := m.Allocate(benchSize)
		if err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
		p[0] = byte(i)
		if err := m.Deallocate(p); err != nil {
			return fmt.Errorf("iteration %d free: %w", i, err)
		}
	}
	elapsed := time.Since(start)

	cyclesPerSec := float64(benchIterations) / elapsed.Seconds()
	nsPerCycle := float64(elapsed.Nanoseconds()) / float64(benchIterations)

	if jsonOut {
		return printJSON(map[string]interface{}{
			"iterations":     benchIterations,
			"size_bytes":     benchSize,
			"elapsed_ns":     elapsed.Nanoseconds(),
			"cycles_per_sec": cyclesPerSec,
			"ns_per_cycle":   nsPerCycle,
		})
	}

	printInfo("\nRan %d allocate/free cycles of %s in %s\n",
		benchIterations, formatBytes(int64(benchSize)), elapsed.Round(time.Millisecond))
	printInfo("  %.0f cycles/sec, %.1f ns/cycle\n", cyclesPerSec, nsPerCycle)
	return nil
}
