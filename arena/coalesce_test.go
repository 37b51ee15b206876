package arena

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChnjFan/mempool/internal/format"
)

// allocN allocates n buffers of size bytes each and returns them.
func allocN(t testing.TB, a *Arena, n, size int) [][]byte {
	t.Helper()
	bufs := make([][]byte, n)
	for i := range bufs {
		buf, err := a.Allocate(size)
		require.NoError(t, err, "allocation %d of %d", i+1, n)
		bufs[i] = buf
	}
	return bufs
}

// TestFreeMergesWithNext frees a chunk whose successor is free and verifies
// the two collapse into one.
func TestFreeMergesWithNext(t *testing.T) {
	a := newTestArena(t, 480)

	bufs := allocN(t, a, 2, 64)
	// Layout: [A used][B used][tail free].
	require.Len(t, scanChunks(a), 3)

	require.NoError(t, a.Deallocate(bufs[1]))

	chunks := scanChunks(a)
	require.Len(t, chunks, 2, "B must merge with the free tail")
	assert.Equal(t, 64, chunks[0].Size)
	assert.False(t, chunks[0].Free)
	assert.Equal(t, 480-2*format.HeaderSize-64, chunks[1].Size,
		"merged chunk covers B plus the tail")
	assert.True(t, chunks[1].Free)
	assertChunkInvariants(t, a)
}

// TestFreeMergesWithPrev frees a chunk whose predecessor is free and verifies
// the predecessor absorbs it.
func TestFreeMergesWithPrev(t *testing.T) {
	a := newTestArena(t, 480)

	bufs := allocN(t, a, 2, 64)
	require.NoError(t, a.Deallocate(bufs[0]))
	// Layout now: [A free][B used][tail free]; freeing B merges all three.
	require.NoError(t, a.Deallocate(bufs[1]))

	chunks := scanChunks(a)
	require.Len(t, chunks, 1, "freeing B must fold A, B, and the tail together")
	assert.Equal(t, 480-format.HeaderSize, chunks[0].Size)
	assert.True(t, chunks[0].Free)
	assert.Equal(t, 480-format.HeaderSize, a.MaxFreeChunk())
	assertChunkInvariants(t, a)
}

// TestFreeMergesBothSides builds [free][used][free] and frees the middle.
func TestFreeMergesBothSides(t *testing.T) {
	a := newTestArena(t, 4096)

	bufs := allocN(t, a, 3, 64)
	require.NoError(t, a.Deallocate(bufs[0]))
	require.NoError(t, a.Deallocate(bufs[2]))
	// bufs[2] merged with the master tail; bufs[0] is an isolated hole.
	require.NoError(t, a.Deallocate(bufs[1]))

	chunks := scanChunks(a)
	require.Len(t, chunks, 1)
	assert.Equal(t, 4096-format.HeaderSize, chunks[0].Size)
	assert.True(t, chunks[0].Free)
	assert.Equal(t, 4096-format.HeaderSize, a.CachedMaxFree(),
		"cache must reflect the fully merged chunk")
	assertChunkInvariants(t, a)
}

// TestFreeInAnyOrderRestoresSingleChunk shuffles the free order of several
// allocations and expects the arena to coalesce back to a single master
// chunk every time.
func TestFreeInAnyOrderRestoresSingleChunk(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := range 10 {
		a := newTestArena(t, 16*1024)

		var bufs [][]byte
		for _, size := range []int{48, 200, 64, 512, 100, 1000} {
			buf, err := a.Allocate(size)
			require.NoError(t, err)
			bufs = append(bufs, buf)
		}

		rng.Shuffle(len(bufs), func(i, j int) {
			bufs[i], bufs[j] = bufs[j], bufs[i]
		})
		for _, buf := range bufs {
			require.NoError(t, a.Deallocate(buf))
		}

		chunks := scanChunks(a)
		require.Len(t, chunks, 1, "round %d: arena did not coalesce", round)
		assert.Equal(t, 16*1024-format.HeaderSize, chunks[0].Size)
		assert.Equal(t, 0, a.UsedSize())
		assertChunkInvariants(t, a)

		require.NoError(t, a.Close())
	}
}

// TestCompactMergesAdjacentRuns hand-builds a layout with a run of adjacent
// free chunks (unreachable through the public API, which coalesces eagerly)
// and verifies one Compact pass collapses the whole run.
func TestCompactMergesAdjacentRuns(t *testing.T) {
	a := newTestArena(t, 480)
	formatChunks(t, a, []chunkSpec{
		{size: 64, free: true},
		{size: 64, free: true},
		{size: 64, free: true},
		{size: 64, free: false},
		{size: 64, free: true},
	})
	assertTilingOnly(t, a)

	merges := a.Compact()
	assert.Equal(t, 2, merges, "three adjacent frees need two merges")

	chunks := scanChunks(a)
	require.Len(t, chunks, 3)
	assert.Equal(t, ChunkInfo{Off: 0, Size: 256, Free: true}, chunks[0],
		"run of three collapses into one chunk in a single pass")
	assert.False(t, chunks[1].Free)
	assert.True(t, chunks[2].Free)
	assert.Equal(t, 256, a.CachedMaxFree())
	assertChunkInvariants(t, a)
}

// TestCompactAfterChurnIsNoOp verifies that eager coalescing on free leaves
// nothing for Compact to do.
func TestCompactAfterChurnIsNoOp(t *testing.T) {
	a := newTestArena(t, 8192)

	bufs := allocN(t, a, 8, 128)
	for i := 0; i < len(bufs); i += 2 {
		require.NoError(t, a.Deallocate(bufs[i]))
	}

	assert.Zero(t, a.Compact(), "frees already coalesced eagerly")
	assertChunkInvariants(t, a)
}

// TestCompactCollapsesWholeRegion hand-builds an all-free layout and expects
// a single master chunk back.
func TestCompactCollapsesWholeRegion(t *testing.T) {
	a := newTestArena(t, 480)
	formatChunks(t, a, []chunkSpec{
		{size: 64, free: true},
		{size: 64, free: true},
		{size: 64, free: true},
		{size: 64, free: true},
		{size: 64, free: true},
	})

	merges := a.Compact()
	assert.Equal(t, 4, merges)

	chunks := scanChunks(a)
	require.Len(t, chunks, 1)
	assert.Equal(t, 480-format.HeaderSize, chunks[0].Size)
	assert.True(t, chunks[0].Free)
	assert.Equal(t, 480-format.HeaderSize, a.MaxFreeChunk())
	assertChunkInvariants(t, a)
}
