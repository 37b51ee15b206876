package arena

import "github.com/ChnjFan/mempool/internal/format"

// Allocate reserves size bytes and returns them as a slice of exactly that
// length. The slice capacity is clamped to the chunk payload, so appends
// cannot run into the neighboring header. The request is rounded up to the
// 16-byte allocation granularity before fitting; placement is first-fit from
// the head of the chunk list.
//
// Ordinary exhaustion returns ErrNoSpace. The buffer must be returned through
// Deallocate on this same arena.
func (a *Arena) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	aligned := format.AlignUp(size, format.Alignment)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return nil, ErrClosed
	}

	// Cheap reject before any walk. The cache is exact under the lock, so a
	// miss here is a real miss.
	if int(a.cachedMax.Load()) < aligned {
		return nil, ErrNoSpace
	}

	off := a.findFit(aligned)
	if off == nilOff {
		return nil, ErrNoSpace
	}
	a.take(off, size, aligned)
	a.recomputeMaxFree()

	payload := off + format.HeaderSize
	return a.mem[payload : payload+size : payload+hdrSize(a.mem, off)], nil
}

// findFit walks the chunk list from the head and returns the offset of the
// first free chunk whose payload holds aligned bytes, or nilOff.
func (a *Arena) findFit(aligned int) int {
	for off := 0; off != nilOff; off = hdrNext(a.mem, off) {
		if hdrFree(a.mem, off) && hdrSize(a.mem, off) >= aligned {
			return off
		}
	}
	return nilOff
}

// take marks the chunk at off allocated for a request of size bytes. The
// chunk is split only when the tail could stand alone as a new chunk, that
// is when more than a header plus MinChunkSize would remain; otherwise the
// whole chunk is handed over and the slack stays internal to it.
func (a *Arena) take(off, size, aligned int) {
	if hdrSize(a.mem, off) > aligned+format.HeaderSize+format.MinChunkSize {
		a.split(off, aligned)
	}
	setHdrFree(a.mem, off, false)
	setHdrPadding(a.mem, off, aligned-size)
	a.used.Add(int64(hdrSize(a.mem, off)))
}

// split carves the tail of the free chunk at off into a new free chunk,
// leaving exactly aligned payload bytes in the first part. The new header is
// linked between off and its old successor.
func (a *Arena) split(off, aligned int) {
	chunkSize := hdrSize(a.mem, off)
	newOff := off + format.HeaderSize + aligned
	newSize := chunkSize - aligned - format.HeaderSize
	next := hdrNext(a.mem, off)

	writeHeader(a.mem, newOff, newSize, next, off, true)
	if next != nilOff {
		setHdrPrev(a.mem, next, newOff)
	}
	setHdrSize(a.mem, off, aligned)
	setHdrNext(a.mem, off, newOff)
}
