package arena

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ChnjFan/mempool/internal/format"
)

// Arena is a fixed-size memory region carved into a doubly linked list of
// contiguous chunks. The first chunk starts at offset 0 and every chunk is a
// 32-byte header followed by its payload; successor and predecessor links are
// region offsets stored inside the headers themselves.
//
// One mutex serializes every list mutation and walk. The used-byte counter
// and the cached largest-free-chunk size are atomics, so routing layers can
// read them without taking the lock.
type Arena struct {
	mu   sync.Mutex
	mem  []byte // reserved region; nil once closed
	size int    // region size in bytes

	used      atomic.Int64 // payload bytes currently allocated
	cachedMax atomic.Int64 // largest free payload, exact while mu is unlocked

	log *slog.Logger
}

// New reserves a region of size bytes and formats it as a single free chunk
// spanning the region minus one header. size must be at least
// format.MinRegionSize. Reservation failures are returned wrapped.
func New(size int, opts ...Option) (*Arena, error) {
	if size < format.MinRegionSize {
		return nil, fmt.Errorf("%w: %d bytes (minimum %d)", ErrRegionSize, size, format.MinRegionSize)
	}
	mem, err := reserveRegion(size)
	if err != nil {
		return nil, fmt.Errorf("arena: reserve %d byte region: %w", size, err)
	}

	a := &Arena{
		mem:  mem,
		size: size,
		log:  discardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}

	writeHeader(a.mem, 0, size-format.HeaderSize, nilOff, nilOff, true)
	a.cachedMax.Store(int64(size - format.HeaderSize))
	return a, nil
}

// Close releases the region. Closing twice is a no-op; every other operation
// on a closed arena fails with ErrClosed.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return nil
	}
	err := releaseRegion(a.mem)
	a.mem = nil
	a.used.Store(0)
	a.cachedMax.Store(0)
	if err != nil {
		return fmt.Errorf("arena: release region: %w", err)
	}
	return nil
}

// Contains reports whether the base address of p lies inside the region.
// It says nothing about whether p is a live allocation; Deallocate performs
// the full header validation.
func (a *Arena) Contains(p []byte) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.offsetOf(p)
	return ok
}

// offsetOf recovers the region offset of the slice base. Returns false when p
// is empty or points outside the region. Callers must hold mu (or otherwise
// know mem is stable).
func (a *Arena) offsetOf(p []byte) (int, bool) {
	if len(p) == 0 || a.mem == nil {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(&a.mem[0]))
	ptr := uintptr(unsafe.Pointer(&p[0]))
	if ptr < base || ptr >= base+uintptr(a.size) {
		return 0, false
	}
	return int(ptr - base), true
}

// recomputeMaxFree rescans the chunk list and refreshes the cached
// largest-free-chunk size. Callers must hold mu; every mutation path runs
// this before unlocking so the cache is exact whenever the lock is free.
func (a *Arena) recomputeMaxFree() {
	maxFree := 0
	for off := 0; off != nilOff; off = hdrNext(a.mem, off) {
		if hdrFree(a.mem, off) && hdrSize(a.mem, off) > maxFree {
			maxFree = hdrSize(a.mem, off)
		}
	}
	a.cachedMax.Store(int64(maxFree))
}

// UsedSize returns the payload bytes currently allocated. Lock-free.
func (a *Arena) UsedSize() int {
	return int(a.used.Load())
}

// TotalSize returns the region size in bytes.
func (a *Arena) TotalSize() int {
	return a.size
}

// CachedMaxFree returns the cached largest-free-chunk size without taking
// the lock. The value is exact whenever no mutation is in flight; routing
// layers use it as a cheap pre-filter and revalidate inside Allocate.
func (a *Arena) CachedMaxFree() int {
	return int(a.cachedMax.Load())
}

// UsageRatio returns used payload bytes over the region size, in [0, 1).
func (a *Arena) UsageRatio() float64 {
	return float64(a.used.Load()) / float64(a.size)
}
