package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlignUp_Granularity16(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero stays zero", 0, 0},
		{"1 -> 16", 1, 16},
		{"7 -> 16", 7, 16},
		{"15 -> 16", 15, 16},
		{"16 stays 16", 16, 16},
		{"17 -> 32", 17, 32},
		{"31 -> 32", 31, 32},
		{"32 stays 32", 32, 32},
		{"33 -> 48", 33, 48},
		{"64 stays 64", 64, 64},
		{"128 stays 128", 128, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AlignUp(tt.in, Alignment)
			assert.Equal(t, tt.want, got, "AlignUp(%d, 16)", tt.in)
			assert.Zero(t, got%Alignment, "result must be a multiple of 16")
			assert.GreaterOrEqual(t, got, tt.in, "result must not shrink the request")
			assert.Equal(t, got, Align16(tt.in), "Align16 must agree with AlignUp")
		})
	}
}

func TestAlignUp_OtherAlignments(t *testing.T) {
	assert.Equal(t, 5, AlignUp(5, 1), "alignment of 1 is the identity")
	assert.Equal(t, 8, AlignUp(5, 8))
	assert.Equal(t, 64, AlignUp(33, 64))
	assert.Equal(t, 4096, AlignUp(1, 4096))
	assert.Equal(t, 0, AlignUp(0, 4096))
}

func TestHeaderLayout(t *testing.T) {
	// The header must keep payloads on the allocation granularity and the
	// free flag must not collide with any u32 field.
	assert.Zero(t, HeaderSize%Alignment, "header size must preserve payload alignment")
	assert.Less(t, PaddingOffset+4, HeaderSize)
	assert.Equal(t, PaddingOffset+4, FreeOffset)
}

func TestPutReadU32_RoundTrip(t *testing.T) {
	b := make([]byte, 16)
	PutU32(b, 4, ChunkMagic)
	assert.Equal(t, ChunkMagic, ReadU32(b, 4))
	// Little-endian on the wire.
	assert.Equal(t, []byte{0xEF, 0xBE, 0xAD, 0xDE}, b[4:8])
	assert.Equal(t, uint32(0), ReadU32(b, 8), "neighboring bytes untouched")
}
