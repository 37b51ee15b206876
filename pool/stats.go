package pool

import (
	"fmt"
	"strings"
)

// Statistics is a point-in-time snapshot across every arena of the pool.
type Statistics struct {
	// TotalAllocated is the byte sum of every reserved region.
	TotalAllocated int

	// TotalUsed is the payload byte sum currently handed out.
	TotalUsed int

	// ArenaCount is the number of arenas across all tiers.
	ArenaCount int

	// AverageUtilization is the mean usage ratio over every arena,
	// idle arenas included.
	AverageUtilization float64

	// FragmentationPct is the mean internal fragmentation over arenas that
	// hold at least one live allocation. Idle arenas would report 0 and
	// drown the signal, so they are excluded; 0 when no arena is in use.
	FragmentationPct int
}

// Statistics gathers the snapshot under the manager lock. A closed manager
// reports zeros.
func (m *Manager) Statistics() Statistics {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s Statistics
	if m.closed {
		return s
	}

	var utilSum float64
	fragSum, fragN := 0, 0
	for ti := range m.tiers {
		for _, a := range m.tiers[ti].arenas {
			s.ArenaCount++
			s.TotalAllocated += a.TotalSize()
			used := a.UsedSize()
			s.TotalUsed += used
			utilSum += a.UsageRatio()
			if used > 0 {
				fragSum += a.InternalFragmentation()
				fragN++
			}
		}
	}
	if s.ArenaCount > 0 {
		s.AverageUtilization = utilSum / float64(s.ArenaCount)
	}
	if fragN > 0 {
		s.FragmentationPct = fragSum / fragN
	}
	return s
}

// AllocationCount returns how many allocations have succeeded since
// construction or the last ResetStatistics.
func (m *Manager) AllocationCount() int64 {
	return m.allocs.Load()
}

// DeallocationCount returns how many deallocations have succeeded since
// construction or the last ResetStatistics.
func (m *Manager) DeallocationCount() int64 {
	return m.deallocs.Load()
}

// ResetStatistics zeroes both lifetime counters. Arena contents and the
// Statistics snapshot are unaffected.
func (m *Manager) ResetStatistics() {
	m.allocs.Store(0)
	m.deallocs.Store(0)
}

// Report renders a human-readable per-arena table, one line per arena plus a
// header per tier.
func (m *Manager) Report() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var b strings.Builder
	if m.closed {
		b.WriteString("pool: closed\n")
		return b.String()
	}

	fmt.Fprintf(&b, "pool: %d allocations, %d deallocations\n",
		m.allocs.Load(), m.deallocs.Load())
	for ti := range m.tiers {
		t := &m.tiers[ti]
		fmt.Fprintf(&b, "%s tier: %d arenas x %d bytes\n", t.name, len(t.arenas), t.size)
		for i, a := range t.arenas {
			st := a.Stats()
			fmt.Fprintf(&b, "  arena %2d: used %9d/%9d (%5.1f%%), max free %9d, frag %3d%%\n",
				i, st.UsedSize, st.TotalSize, st.Utilization*100, st.MaxFreeChunk, st.Fragmentation)
		}
	}
	return b.String()
}
