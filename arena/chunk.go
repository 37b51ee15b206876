package arena

import "github.com/ChnjFan/mempool/internal/format"

// nilOff marks an absent next/prev link once decoded from the on-buffer
// NilOffset sentinel.
const nilOff = -1

// Chunk header field accessors. Every accessor takes the region bytes and the
// offset of a chunk header within them; the byte-level encoding lives in
// internal/format. Links are stored as region offsets, never as pointers, so
// the region can move (or be dumped) without invalidating the structure.

func hdrMagic(mem []byte, off int) uint32 {
	return format.ReadU32(mem, off+format.MagicOffset)
}

func hdrSize(mem []byte, off int) int {
	return int(format.ReadU32(mem, off+format.SizeOffset))
}

func setHdrSize(mem []byte, off, size int) {
	format.PutU32(mem, off+format.SizeOffset, uint32(size))
}

func hdrNext(mem []byte, off int) int {
	v := format.ReadU32(mem, off+format.NextOffset)
	if v == format.NilOffset {
		return nilOff
	}
	return int(v)
}

func setHdrNext(mem []byte, off, next int) {
	v := format.NilOffset
	if next != nilOff {
		v = uint32(next)
	}
	format.PutU32(mem, off+format.NextOffset, v)
}

func hdrPrev(mem []byte, off int) int {
	v := format.ReadU32(mem, off+format.PrevOffset)
	if v == format.NilOffset {
		return nilOff
	}
	return int(v)
}

func setHdrPrev(mem []byte, off, prev int) {
	v := format.NilOffset
	if prev != nilOff {
		v = uint32(prev)
	}
	format.PutU32(mem, off+format.PrevOffset, v)
}

func hdrPadding(mem []byte, off int) int {
	return int(format.ReadU32(mem, off+format.PaddingOffset))
}

func setHdrPadding(mem []byte, off, pad int) {
	format.PutU32(mem, off+format.PaddingOffset, uint32(pad))
}

func hdrFree(mem []byte, off int) bool {
	return mem[off+format.FreeOffset] != 0
}

func setHdrFree(mem []byte, off int, free bool) {
	if free {
		mem[off+format.FreeOffset] = 1
	} else {
		mem[off+format.FreeOffset] = 0
	}
}

// writeHeader stamps a complete chunk header at off, including the validity
// tag and zeroed reserved bytes.
func writeHeader(mem []byte, off, size, next, prev int, free bool) {
	format.PutU32(mem, off+format.MagicOffset, format.ChunkMagic)
	setHdrSize(mem, off, size)
	setHdrNext(mem, off, next)
	setHdrPrev(mem, off, prev)
	setHdrPadding(mem, off, 0)
	setHdrFree(mem, off, free)
	clear(mem[off+format.FreeOffset+1 : off+format.HeaderSize])
}
