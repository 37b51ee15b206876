package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChnjFan/mempool/internal/format"
)

// ============================================================================
// Arena Creation Utilities
// ============================================================================

// newTestArena creates an arena of the given size and registers cleanup.
func newTestArena(t testing.TB, size int) *Arena {
	t.Helper()

	a, err := New(size)
	require.NoError(t, err, "failed to create %d byte arena", size)

	t.Cleanup(func() { _ = a.Close() })

	return a
}

// chunkSpec describes one chunk of a hand-built layout: payload bytes plus
// the free flag.
type chunkSpec struct {
	size int
	free bool
}

// formatChunks overwrites the arena's chunk list with the given layout. The
// payload sizes plus their headers must tile the region exactly; the helper
// fails the test otherwise. Used to construct states the public API cannot
// reach directly, such as runs of adjacent free chunks for Compact tests.
func formatChunks(t testing.TB, a *Arena, specs []chunkSpec) {
	t.Helper()

	require.NotEmpty(t, specs, "layout needs at least one chunk")

	a.mu.Lock()
	defer a.mu.Unlock()

	used := 0
	off := 0
	prev := nilOff
	for i, spec := range specs {
		end := off + format.HeaderSize + spec.size
		require.LessOrEqual(t, end, a.size,
			"chunk %d (payload %d) overruns the region", i, spec.size)

		next := end
		if i == len(specs)-1 {
			next = nilOff
		}
		writeHeader(a.mem, off, spec.size, next, prev, spec.free)
		if !spec.free {
			used += spec.size
		}
		prev = off
		off = end
	}
	require.Equal(t, a.size, off, "layout must tile the region exactly")

	a.used.Store(int64(used))
	a.recomputeMaxFree()
}

// ============================================================================
// Chunk Inspection
// ============================================================================

// ChunkInfo describes a single chunk in the list.
type ChunkInfo struct {
	Off     int  // header offset within the region
	Size    int  // payload bytes
	Free    bool // free flag
	Padding int  // recorded alignment slack
}

// scanChunks walks the chunk list and returns info about every chunk.
func scanChunks(a *Arena) []ChunkInfo {
	a.mu.Lock()
	defer a.mu.Unlock()

	var chunks []ChunkInfo
	for off := 0; off != nilOff; off = hdrNext(a.mem, off) {
		chunks = append(chunks, ChunkInfo{
			Off:     off,
			Size:    hdrSize(a.mem, off),
			Free:    hdrFree(a.mem, off),
			Padding: hdrPadding(a.mem, off),
		})
	}
	return chunks
}

// ============================================================================
// Invariant Checking
// ============================================================================

// assertChunkInvariants performs comprehensive structural checks on the
// arena. Fails the test if any violation is found.
func assertChunkInvariants(t testing.TB, a *Arena) {
	t.Helper()

	a.mu.Lock()
	defer a.mu.Unlock()

	var (
		used     int
		maxFree  int
		prev     = nilOff
		off      = 0
		chunkNum = 0
	)

	for off != nilOff {
		chunkNum++

		// Invariant 1: every header carries the validity tag.
		assert.Equal(t, format.ChunkMagic, hdrMagic(a.mem, off),
			"chunk %d at 0x%x: bad magic", chunkNum, off)

		// Invariant 2: back links are mutually consistent.
		assert.Equal(t, prev, hdrPrev(a.mem, off),
			"chunk %d at 0x%x: prev link mismatch", chunkNum, off)

		size := hdrSize(a.mem, off)
		next := hdrNext(a.mem, off)

		// Invariant 3: chunks tile the region with no gaps or overlaps.
		end := off + format.HeaderSize + size
		if next != nilOff {
			assert.Equal(t, end, next,
				"chunk %d at 0x%x: gap before next chunk", chunkNum, off)
		} else {
			assert.Equal(t, a.size, end,
				"last chunk at 0x%x does not reach the region end", off)
		}

		// Invariant 4: no two adjacent free chunks.
		if next != nilOff && hdrFree(a.mem, off) {
			assert.False(t, hdrFree(a.mem, next),
				"chunks at 0x%x and 0x%x are both free", off, next)
		}

		if hdrFree(a.mem, off) {
			if size > maxFree {
				maxFree = size
			}
		} else {
			used += size
		}

		prev = off
		off = next
	}

	// Invariant 5: the used counter matches the allocated payload sum.
	assert.Equal(t, int64(used), a.used.Load(), "used counter out of sync")

	// Invariant 6: the cached max matches the true largest free payload.
	assert.Equal(t, int64(maxFree), a.cachedMax.Load(), "cached max free out of sync")
}

// assertTilingOnly checks structure but not coalescing: hand-built layouts
// may legitimately contain adjacent free chunks before Compact runs, so
// callers use this on such layouts instead of assertChunkInvariants.
func assertTilingOnly(t testing.TB, a *Arena) {
	t.Helper()

	a.mu.Lock()
	defer a.mu.Unlock()

	off := 0
	prev := nilOff
	for off != nilOff {
		require.Equal(t, format.ChunkMagic, hdrMagic(a.mem, off), "bad magic at 0x%x", off)
		require.Equal(t, prev, hdrPrev(a.mem, off), "prev link mismatch at 0x%x", off)
		end := off + format.HeaderSize + hdrSize(a.mem, off)
		next := hdrNext(a.mem, off)
		if next == nilOff {
			require.Equal(t, a.size, end, "last chunk must reach the region end")
		} else {
			require.Equal(t, end, next, "gap before next chunk at 0x%x", off)
		}
		prev = off
		off = next
	}
}
