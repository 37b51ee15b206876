// Package format defines the binary layout of chunk headers inside a pool
// region. The goal is to keep the byte-level encoding in one place and
// independent from the public API, so higher-level packages manipulate chunks
// through offsets instead of raw pointers.
package format

const (
	// ChunkMagic is the validity tag stamped into every live chunk header.
	// A header whose magic field does not match did not originate in the
	// region, or was overwritten.
	ChunkMagic uint32 = 0xDEADBEEF

	// HeaderSize is the number of bytes of bookkeeping preceding every chunk
	// payload. Payloads stay 16-byte aligned because the header size is a
	// multiple of Alignment.
	HeaderSize = 32

	// Chunk header field offsets, relative to the start of the header.
	// Layout (little-endian):
	//   0x00  u32  magic     ChunkMagic while the header is live
	//   0x04  u32  size      payload bytes, excluding the header
	//   0x08  u32  next      region offset of the successor header
	//   0x0C  u32  prev      region offset of the predecessor header
	//   0x10  u32  padding   alignment slack: aligned size - requested size
	//   0x14  u8   free      1 = free, 0 = allocated
	//   0x15       reserved
	MagicOffset   = 0x00
	SizeOffset    = 0x04
	NextOffset    = 0x08
	PrevOffset    = 0x0C
	PaddingOffset = 0x10
	FreeOffset    = 0x14

	// NilOffset marks an absent next/prev link. Region offsets are bounded by
	// the region size, so the all-ones value can never name a real chunk.
	NilOffset uint32 = 0xFFFFFFFF

	// Alignment is the allocation granularity. Every requested size is rounded
	// up to a multiple of this before fitting.
	Alignment = 16

	// AlignmentMask is the bitmask for rounding to Alignment (Alignment - 1).
	AlignmentMask = Alignment - 1

	// MinChunkSize is the smallest payload a split may leave behind. Splits
	// that would create a smaller remainder are skipped and the whole chunk is
	// handed to the caller instead.
	MinChunkSize = 64

	// MinRegionSize is the smallest region that can be formatted: one header
	// plus one minimum payload.
	MinRegionSize = HeaderSize + MinChunkSize
)
