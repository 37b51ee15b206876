package main

import (
	"fmt"

	"github.com/ChnjFan/mempool/pool"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDemoCmd())
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a guided allocation walkthrough",
		Long: `The demo command builds a pool with the standard geometry, performs a
spread of allocations that touches all three tiers, prints the per-arena
report, then frees everything and shows the pool recovering.

Example:
  poolctl demo
  poolctl demo --json
  poolctl demo --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
	return cmd
}

func runDemo() error {
	printVerbose("Building pool: 256 KiB / 1 MiB / 4 MiB tiers, 10 arenas each\n")

	m, err := pool.NewManager(pool.DefaultConfig, pool.WithLogger(newLogger()))
	if err != nil {
		return fmt.Errorf("failed to build pool: %w", err)
	}
	defer m.Close()

	// One small, two that share an arena, one medium, one large.
	sizes := []int{64, 1024, 32 * 1024, 300 * 1024, 2 * 1024 * 1024}
	bufs := make([][]byte, 0, len(sizes))
	for _, size := range sizes {
		p, err := m.Allocate(size)
		if err != nil {
			return fmt.Errorf("allocating %d bytes: %w", size, err)
		}
		printVerbose("Allocated %s\n", formatBytes(int64(size)))
		bufs = append(bufs, p)
	}

	s := m.Statistics()

	if jsonOut {
		return printJSON(map[string]interface{}{
			"arenas":              s.ArenaCount,
			"reserved_bytes":      s.TotalAllocated,
			"used_bytes":          s.TotalUsed,
			"average_utilization": s.AverageUtilization,
			"fragmentation_pct":   s.FragmentationPct,
			"allocations":         m.AllocationCount(),
		})
	}

	printInfo("\n%s", m.Report())
	printInfo("\nReserved %s across %d arenas, %s in use after %d allocations\n",
		formatBytes(int64(s.TotalAllocated)), s.ArenaCount,
		formatBytes(int64(s.TotalUsed)), m.AllocationCount())

	for _, p := range bufs {
		if err := m.Deallocate(p); err != nil {
			return fmt.Errorf("deallocating: %w", err)
		}
	}

	printInfo("After freeing everything: %s in use\n",
		formatBytes(int64(m.Statistics().TotalUsed)))
	return nil
}
