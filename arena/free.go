package arena

import "github.com/ChnjFan/mempool/internal/format"

// Deallocate returns a buffer obtained from Allocate to the arena. The chunk
// is validated before any state changes: the slice base must lie inside the
// region behind a header carrying the validity tag, and the chunk must be
// live. Invalid hand-backs leave the arena untouched:
//
//   - nil or empty slice: ErrNilBuffer
//   - outside the region or no valid header: ErrForeignBuffer
//   - chunk already free: ErrDoubleFree
//
// Foreign buffers and double frees are also logged as warnings.
//
// After the chunk is marked free it is coalesced with its successor and then
// its predecessor when those are free, so no two adjacent free chunks survive.
func (a *Arena) Deallocate(p []byte) error {
	if len(p) == 0 {
		return ErrNilBuffer
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return ErrClosed
	}

	payloadOff, ok := a.offsetOf(p)
	if !ok || payloadOff < format.HeaderSize {
		a.log.Warn("free of buffer outside this arena", "len", len(p))
		return ErrForeignBuffer
	}
	off := payloadOff - format.HeaderSize
	if hdrMagic(a.mem, off) != format.ChunkMagic {
		a.log.Warn("free of buffer with no chunk header", "offset", payloadOff)
		return ErrForeignBuffer
	}
	if hdrFree(a.mem, off) {
		a.log.Warn("double free detected",
			"offset", off,
			"size", hdrSize(a.mem, off))
		return ErrDoubleFree
	}

	setHdrFree(a.mem, off, true)
	setHdrPadding(a.mem, off, 0)
	a.used.Add(-int64(hdrSize(a.mem, off)))
	a.coalesce(off)
	a.recomputeMaxFree()
	return nil
}

// coalesce merges the free chunk at off with its free neighbors: successor
// first, then predecessor. Each merge absorbs the neighbor's header and
// payload into a single larger chunk.
func (a *Arena) coalesce(off int) {
	if next := hdrNext(a.mem, off); next != nilOff && hdrFree(a.mem, next) {
		a.absorbNext(off)
	}
	if prev := hdrPrev(a.mem, off); prev != nilOff && hdrFree(a.mem, prev) {
		a.absorbNext(prev)
	}
}

// absorbNext folds the successor chunk into the free chunk at off. The
// successor's header bytes become payload of the merged chunk.
func (a *Arena) absorbNext(off int) {
	next := hdrNext(a.mem, off)
	setHdrSize(a.mem, off, hdrSize(a.mem, off)+format.HeaderSize+hdrSize(a.mem, next))
	after := hdrNext(a.mem, next)
	setHdrNext(a.mem, off, after)
	if after != nilOff {
		setHdrPrev(a.mem, after, off)
	}
}

// Compact merges every run of adjacent free chunks in a single head-to-tail
// pass. After a merge the cursor stays on the merged chunk so longer runs
// collapse without a second pass. Returns the number of merges performed.
func (a *Arena) Compact() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return 0
	}

	merges := 0
	off := 0
	for off != nilOff {
		next := hdrNext(a.mem, off)
		if next != nilOff && hdrFree(a.mem, off) && hdrFree(a.mem, next) {
			a.absorbNext(off)
			merges++
			continue
		}
		off = next
	}
	a.recomputeMaxFree()
	return merges
}
