package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// Manager Creation Utilities
// ============================================================================

// testConfig returns a geometry small enough for fast tests: 4 KiB / 8 KiB /
// 16 KiB tiers with two arenas each.
func testConfig() Config {
	return Config{
		SmallArenaSize:  4 << 10,
		MediumArenaSize: 8 << 10,
		LargeArenaSize:  16 << 10,
		ArenasPerTier:   2,
	}
}

// escalationConfig is testConfig with a single arena per tier, so one
// whole-arena allocation saturates a tier.
func escalationConfig() Config {
	cfg := testConfig()
	cfg.ArenasPerTier = 1
	return cfg
}

// newTestManager creates a manager and registers cleanup.
func newTestManager(t testing.TB, cfg Config) *Manager {
	t.Helper()

	m, err := NewManager(cfg)
	require.NoError(t, err, "failed to create manager")

	t.Cleanup(func() { _ = m.Close() })

	return m
}

// ============================================================================
// Ownership Probes
// ============================================================================

// ownerOf locates the arena holding p and returns its tier and arena index.
// Fails the test when no arena contains the buffer.
func ownerOf(t testing.TB, m *Manager, p []byte) (tierIdx, arenaIdx int) {
	t.Helper()

	for ti := range m.tiers {
		for ai, a := range m.tiers[ti].arenas {
			if a.Contains(p) {
				return ti, ai
			}
		}
	}
	t.Fatalf("no arena owns the %d byte buffer", len(p))
	return -1, -1
}

// fillTier saturates every arena of the given tier with one whole-capacity
// allocation each and returns the buffers. Each allocation is checked to have
// landed in the intended tier.
func fillTier(t testing.TB, m *Manager, tierIdx int) [][]byte {
	t.Helper()

	size := usableCapacity(m.tiers[tierIdx].size)
	bufs := make([][]byte, 0, len(m.tiers[tierIdx].arenas))
	for range m.tiers[tierIdx].arenas {
		p, err := m.Allocate(size)
		require.NoError(t, err, "saturating tier %d with %d byte allocations", tierIdx, size)

		ti, _ := ownerOf(t, m, p)
		require.Equal(t, tierIdx, ti, "whole-capacity allocation must stay in its own tier")
		bufs = append(bufs, p)
	}
	return bufs
}
