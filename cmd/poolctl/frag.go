package main

import (
	"fmt"

	"github.com/ChnjFan/mempool/pool"
	"github.com/spf13/cobra"
)

var fragBuffers int

func init() {
	cmd := newFragCmd()
	cmd.Flags().IntVar(&fragBuffers, "buffers", 64, "Buffers to allocate before punching holes")
	rootCmd.AddCommand(cmd)
}

func newFragCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frag",
		Short: "Build a fragmented pool and watch it heal",
		Long: `The frag command allocates a run of equal-size buffers, frees every
second one to punch holes between live chunks, and reports the fragmentation
metric along the way. A compaction sweep runs while the holes are pinned by
their neighbors, then the survivors are freed so coalescing can collapse the
arena back to a single span.

Example:
  poolctl frag
  poolctl frag --buffers 256 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrag()
		},
	}
	return cmd
}

func runFrag() error {
	if fragBuffers < 2 {
		return fmt.Errorf("need at least 2 buffers, got %d", fragBuffers)
	}

	printVerbose("Building pool: 512 KiB / 2 MiB / 8 MiB tiers, 5 arenas each\n")

	m, err := pool.NewManager(pool.ConfigWide, pool.WithLogger(newLogger()))
	if err != nil {
		return fmt.Errorf("failed to build pool: %w", err)
	}
	defer m.Close()

	const bufSize = 4096
	bufs := make([][]byte, 0, fragBuffers)
	for range fragBuffers {
		p, err := m.Allocate(bufSize)
		if err != nil {
			return fmt.Errorf("filling the pool: %w", err)
		}
		bufs = append(bufs, p)
	}

	// Punch holes: every second buffer goes back, pinned between live
	// neighbors so the freed chunks cannot coalesce.
	holes := 0
	for i := 0; i < len(bufs); i += 2 {
		if err := m.Deallocate(bufs[i]); err != nil {
			return fmt.Errorf("punching holes: %w", err)
		}
		bufs[i] = nil
		holes++
	}

	fragged := m.Statistics()
	merges := m.CompactAll()
	afterSweep := m.Statistics()

	// Free the survivors; eager coalescing folds each hole into its
	// neighbor as it goes.
	for _, p := range bufs {
		if p == nil {
			continue
		}
		if err := m.Deallocate(p); err != nil {
			return fmt.Errorf("freeing survivors: %w", err)
		}
	}
	healed := m.Statistics()

	if jsonOut {
		return printJSON(map[string]interface{}{
			"buffers":            fragBuffers,
			"holes":              holes,
			"fragmentation_pct":  fragged.FragmentationPct,
			"sweep_merges":       merges,
			"after_sweep_pct":    afterSweep.FragmentationPct,
			"after_freeing_pct":  healed.FragmentationPct,
			"after_freeing_used": healed.TotalUsed,
			"deallocations":      m.DeallocationCount(),
		})
	}

	printInfo("\nAllocated %d x %s, then freed every second buffer (%d holes)\n",
		fragBuffers, formatBytes(bufSize), holes)
	printInfo("  Fragmentation with holes pinned: %d%%\n", fragged.FragmentationPct)
	printInfo("  Compaction sweep merged %d chunk pairs: %d%%\n", merges, afterSweep.FragmentationPct)
	printInfo("  After freeing the survivors: %d%% (%s in use)\n",
		healed.FragmentationPct, formatBytes(int64(healed.TotalUsed)))
	return nil
}
