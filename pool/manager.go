package pool

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ChnjFan/mempool/arena"
	"github.com/ChnjFan/mempool/internal/format"
)

// tierCount is fixed: small, medium, large.
const tierCount = 3

// tier is one size class of arenas, probed in order during allocation.
type tier struct {
	name   string // "small", "medium" or "large", for logs and reports
	size   int    // region size of every arena in this tier
	arenas []*arena.Arena
}

// Manager routes allocations across three tiers of fixed-size arenas. A
// request goes to the smallest tier able to hold it and escalates into
// larger tiers when that tier runs out of space. Buffers return to whichever
// arena contains them, so callers free through the manager without knowing
// where a buffer landed.
//
// All methods are safe for concurrent use.
type Manager struct {
	mu    sync.Mutex
	tiers [tierCount]tier // ordered smallest to largest

	// Lifetime counters, incremented on successful operations only.
	allocs   atomic.Int64
	deallocs atomic.Int64

	log    *slog.Logger
	closed bool
}

// usableCapacity is the largest request an empty arena of the given region
// size is guaranteed to satisfy: one header formats the region, and a split
// may hold back a minimum chunk.
func usableCapacity(arenaSize int) int {
	return arenaSize - format.HeaderSize - format.MinChunkSize
}

// NewManager builds every arena of every tier up front. If any arena cannot
// be reserved, the ones already built are released and the wrapped error is
// returned.
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}

	specs := [tierCount]struct {
		name string
		size int
	}{
		{"small", cfg.SmallArenaSize},
		{"medium", cfg.MediumArenaSize},
		{"large", cfg.LargeArenaSize},
	}

	reserved := 0
	for ti, spec := range specs {
		t := tier{
			name:   spec.name,
			size:   spec.size,
			arenas: make([]*arena.Arena, 0, cfg.ArenasPerTier),
		}
		for range cfg.ArenasPerTier {
			a, err := arena.New(spec.size, arena.WithLogger(m.log))
			if err != nil {
				m.closeArenas()
				return nil, fmt.Errorf("pool: building %s tier: %w", spec.name, err)
			}
			t.arenas = append(t.arenas, a)
			reserved += spec.size
		}
		m.tiers[ti] = t
	}

	m.log.Info("memory pool ready",
		"small", cfg.SmallArenaSize,
		"medium", cfg.MediumArenaSize,
		"large", cfg.LargeArenaSize,
		"arenas", tierCount*cfg.ArenasPerTier,
		"reserved", reserved)
	return m, nil
}

// Allocate returns a buffer of exactly size bytes from the smallest tier
// able to hold the request. Requests beyond the large tier's usable capacity
// fail with ErrTooLarge without probing; requests no arena can currently
// satisfy fail with ErrExhausted after the full scan.
func (m *Manager) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	aligned := format.AlignUp(size, format.Alignment)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	if limit := usableCapacity(m.tiers[tierCount-1].size); size > limit {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, size, limit)
	}

	for ti := range m.tiers {
		t := &m.tiers[ti]
		if size > usableCapacity(t.size) {
			// Request cannot fit this tier even when empty, escalate.
			continue
		}
		for _, a := range t.arenas {
			if a.CachedMaxFree() < aligned {
				continue
			}
			p, err := a.Allocate(size)
			if err != nil {
				// Keep scanning: a later arena may still have room.
				continue
			}
			m.allocs.Add(1)
			return p, nil
		}
	}

	m.log.Warn("pool exhausted", "size", size)
	return nil, fmt.Errorf("%w: no arena can hold %d bytes", ErrExhausted, size)
}

// Deallocate returns a buffer to the arena that contains it. A nil or empty
// buffer is ignored. Buffers no arena owns fail with ErrNotOwned; arena-level
// failures such as arena.ErrDoubleFree propagate unchanged.
func (m *Manager) Deallocate(p []byte) error {
	if len(p) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	for ti := range m.tiers {
		for _, a := range m.tiers[ti].arenas {
			if !a.Contains(p) {
				continue
			}
			if err := a.Deallocate(p); err != nil {
				return err
			}
			m.deallocs.Add(1)
			return nil
		}
	}

	m.log.Warn("deallocate of buffer not owned by any arena", "len", len(p))
	return ErrNotOwned
}

// CompactAll merges adjacent free chunks in every arena and returns the
// total number of merges across the pool.
func (m *Manager) CompactAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0
	}

	merges := 0
	for ti := range m.tiers {
		for _, a := range m.tiers[ti].arenas {
			merges += a.Compact()
		}
	}
	m.log.Info("compaction sweep complete", "merges", merges)
	return merges
}

// Close releases every arena. Closing twice is a no-op; all other methods
// fail with ErrClosed afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return m.closeArenas()
}

// closeArenas releases every arena built so far, keeping the first error.
// Callers must hold mu or be the sole owner during construction.
func (m *Manager) closeArenas() error {
	var first error
	for ti := range m.tiers {
		for _, a := range m.tiers[ti].arenas {
			if err := a.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
