package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChnjFan/mempool/internal/format"
)

// TestSplitCarvesTailChunk verifies that a small request against a large free
// chunk splits it: the request gets an aligned chunk and the rest becomes a
// new free chunk directly behind it.
func TestSplitCarvesTailChunk(t *testing.T) {
	a := newTestArena(t, 4096)

	_, err := a.Allocate(100)
	require.NoError(t, err)

	chunks := scanChunks(a)
	require.Len(t, chunks, 2)

	assert.Equal(t, 0, chunks[0].Off)
	assert.Equal(t, 112, chunks[0].Size, "aligned request size")
	assert.False(t, chunks[0].Free)

	assert.Equal(t, format.HeaderSize+112, chunks[1].Off, "tail starts right after the payload")
	assert.Equal(t, 4096-2*format.HeaderSize-112, chunks[1].Size)
	assert.True(t, chunks[1].Free)

	assert.Equal(t, 112, a.UsedSize(), "only the carved chunk counts as used")
	assertChunkInvariants(t, a)
}

// TestSplitThresholdBoundary pins the exact boundary: a chunk is split only
// when strictly more than a header plus the minimum chunk size would remain.
// A 160-byte chunk serving a 64-byte request leaves exactly header+minimum,
// so it must NOT split; a 176-byte chunk must.
func TestSplitThresholdBoundary(t *testing.T) {
	t.Run("remainder at threshold is absorbed", func(t *testing.T) {
		a := newTestArena(t, 160+format.HeaderSize)

		buf, err := a.Allocate(64)
		require.NoError(t, err)
		assert.Len(t, buf, 64)

		chunks := scanChunks(a)
		require.Len(t, chunks, 1, "no split at the threshold")
		assert.Equal(t, 160, chunks[0].Size, "whole chunk handed over")
		assert.False(t, chunks[0].Free)
		assert.Equal(t, 160, a.UsedSize())
		assertChunkInvariants(t, a)
	})

	t.Run("remainder above threshold splits", func(t *testing.T) {
		a := newTestArena(t, 176+format.HeaderSize)

		buf, err := a.Allocate(64)
		require.NoError(t, err)
		assert.Len(t, buf, 64)

		chunks := scanChunks(a)
		require.Len(t, chunks, 2, "one granule above the threshold must split")
		assert.Equal(t, 64, chunks[0].Size)
		assert.False(t, chunks[0].Free)
		assert.Equal(t, 80, chunks[1].Size, "tail keeps the remainder minus one header")
		assert.True(t, chunks[1].Free)
		assert.Equal(t, 64, a.UsedSize())
		assertChunkInvariants(t, a)
	})
}

// TestSplitBoundaries sweeps size combinations around the split threshold.
func TestSplitBoundaries(t *testing.T) {
	testCases := []struct {
		name          string
		masterSize    int // payload of the single starting chunk
		allocSize     int
		expectSplit   bool
		expectChunkSz int // payload size of the allocated chunk
		expectTailSz  int // payload size of the tail chunk when split
	}{
		{
			name:          "256 alloc 256 -> exact fit",
			masterSize:    256,
			allocSize:     256,
			expectSplit:   false,
			expectChunkSz: 256,
		},
		{
			name:          "256 alloc 160 -> remainder 96 absorbed",
			masterSize:    256,
			allocSize:     160,
			expectSplit:   false,
			expectChunkSz: 256,
		},
		{
			name:          "272 alloc 160 -> tail 80",
			masterSize:    272,
			allocSize:     160,
			expectSplit:   true,
			expectChunkSz: 160,
			expectTailSz:  80,
		},
		{
			name:          "4064 alloc 1 -> tail 4016",
			masterSize:    4064,
			allocSize:     1,
			expectSplit:   true,
			expectChunkSz: 16,
			expectTailSz:  4016,
		},
		{
			name:          "112 alloc 100 -> aligned exact fit",
			masterSize:    112,
			allocSize:     100,
			expectSplit:   false,
			expectChunkSz: 112,
		},
		{
			name:          "208 alloc 100 -> remainder 96 absorbed",
			masterSize:    208,
			allocSize:     100,
			expectSplit:   false,
			expectChunkSz: 208,
		},
		{
			name:          "224 alloc 100 -> tail 80",
			masterSize:    224,
			allocSize:     100,
			expectSplit:   true,
			expectChunkSz: 112,
			expectTailSz:  80,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestArena(t, tc.masterSize+format.HeaderSize)

			buf, err := a.Allocate(tc.allocSize)
			require.NoError(t, err, "Allocate should succeed")
			assert.Len(t, buf, tc.allocSize)

			chunks := scanChunks(a)
			if tc.expectSplit {
				require.Len(t, chunks, 2, "expected a split")
				assert.Equal(t, tc.expectChunkSz, chunks[0].Size, "allocated chunk size")
				assert.False(t, chunks[0].Free)
				assert.Equal(t, tc.expectTailSz, chunks[1].Size, "tail chunk size")
				assert.True(t, chunks[1].Free)
				assert.GreaterOrEqual(t, tc.expectTailSz, format.MinChunkSize,
					"a split may never leave a tail below the minimum chunk size")
			} else {
				require.Len(t, chunks, 1, "expected no split")
				assert.Equal(t, tc.expectChunkSz, chunks[0].Size)
				assert.False(t, chunks[0].Free)
			}
			assert.Equal(t, tc.expectChunkSz, a.UsedSize())
			assertChunkInvariants(t, a)
		})
	}
}

// TestSplitTailIsAllocatable allocates the tail produced by a split and
// verifies the arena ends up fully used.
func TestSplitTailIsAllocatable(t *testing.T) {
	a := newTestArena(t, 176+format.HeaderSize)

	first, err := a.Allocate(64)
	require.NoError(t, err)
	second, err := a.Allocate(80)
	require.NoError(t, err, "the 80-byte tail must satisfy an 80-byte request")

	assert.Equal(t, 0, a.FreeSpace())
	assert.Equal(t, 144, a.UsedSize())
	assertChunkInvariants(t, a)

	require.NoError(t, a.Deallocate(first))
	require.NoError(t, a.Deallocate(second))
	chunks := scanChunks(a)
	require.Len(t, chunks, 1, "frees must coalesce back into the master chunk")
	assert.Equal(t, 176, chunks[0].Size)
	assertChunkInvariants(t, a)
}
