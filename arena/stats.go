package arena

// Stats is a point-in-time snapshot of one arena, gathered in a single walk.
type Stats struct {
	TotalSize     int     // region size in bytes
	UsedSize      int     // payload bytes currently allocated
	FreeSpace     int     // payload bytes currently free
	MaxFreeChunk  int     // largest free payload
	ChunkCount    int     // chunks in the list, free and allocated
	FreeChunks    int     // free chunks in the list
	Utilization   float64 // UsedSize / TotalSize
	Fragmentation int     // internal fragmentation percentage, 0-100
}

// FreeSpace returns the total free payload bytes.
func (a *Arena) FreeSpace() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return 0
	}
	free := 0
	for off := 0; off != nilOff; off = hdrNext(a.mem, off) {
		if hdrFree(a.mem, off) {
			free += hdrSize(a.mem, off)
		}
	}
	return free
}

// MaxFreeChunk returns the largest free payload by walking the list under the
// lock. CachedMaxFree returns the same value without the walk.
func (a *Arena) MaxFreeChunk() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return 0
	}
	maxFree := 0
	for off := 0; off != nilOff; off = hdrNext(a.mem, off) {
		if hdrFree(a.mem, off) && hdrSize(a.mem, off) > maxFree {
			maxFree = hdrSize(a.mem, off)
		}
	}
	return maxFree
}

// InternalFragmentation returns how much of the free space sits outside the
// largest free chunk, as an integer percentage. An arena with at most one
// free chunk, or with no free bytes at all, reports 0: a single hole is not
// fragmented no matter its size.
func (a *Arena) InternalFragmentation() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return 0
	}
	totalFree, maxFree, freeChunks := a.freeSummary()
	if freeChunks <= 1 || totalFree == 0 {
		return 0
	}
	return (totalFree - maxFree) * 100 / totalFree
}

// Stats gathers the full snapshot in one walk.
func (a *Arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return Stats{}
	}

	s := Stats{
		TotalSize: a.size,
		UsedSize:  int(a.used.Load()),
	}
	for off := 0; off != nilOff; off = hdrNext(a.mem, off) {
		s.ChunkCount++
		if hdrFree(a.mem, off) {
			s.FreeChunks++
			s.FreeSpace += hdrSize(a.mem, off)
			if hdrSize(a.mem, off) > s.MaxFreeChunk {
				s.MaxFreeChunk = hdrSize(a.mem, off)
			}
		}
	}
	s.Utilization = float64(s.UsedSize) / float64(s.TotalSize)
	if s.FreeChunks > 1 && s.FreeSpace > 0 {
		s.Fragmentation = (s.FreeSpace - s.MaxFreeChunk) * 100 / s.FreeSpace
	}
	return s
}

// freeSummary walks the list once and returns total free bytes, the largest
// free payload, and the free chunk count. Callers must hold mu.
func (a *Arena) freeSummary() (totalFree, maxFree, freeChunks int) {
	for off := 0; off != nilOff; off = hdrNext(a.mem, off) {
		if !hdrFree(a.mem, off) {
			continue
		}
		freeChunks++
		totalFree += hdrSize(a.mem, off)
		if hdrSize(a.mem, off) > maxFree {
			maxFree = hdrSize(a.mem, off)
		}
	}
	return totalFree, maxFree, freeChunks
}
