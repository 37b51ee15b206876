// Package arena provides a fixed-size, thread-safe first-fit allocator over a
// single reserved memory region.
//
// # Overview
//
// An Arena reserves one contiguous region (an anonymous memory mapping on
// linux and darwin, a heap slice elsewhere) and manages it as a doubly linked
// list of chunks. Each chunk is a 32-byte header followed by its payload;
// links are region offsets stored inside the headers, so the structure lives
// entirely inside the region.
//
//   - First-fit placement with 16-byte granularity
//   - Splitting with an anti-fragmentation threshold: a chunk is only split
//     when the remainder could stand alone (more than a header plus 64 bytes)
//   - Eager coalescing on free, plus an explicit Compact pass
//   - A cached largest-free-chunk size readable without the lock, used by
//     routing layers to skip arenas that cannot satisfy a request
//
// # Usage Example
//
//	a, err := arena.New(256 * 1024)
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	buf, err := a.Allocate(100)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Later, hand the buffer back.
//	err = a.Deallocate(buf)
//
// # Validation
//
// Every header carries a validity tag. Deallocate checks the tag and the
// free flag before touching any state, so double frees and buffers that never
// came from the arena are reported as errors instead of corrupting the list.
//
// # Thread Safety
//
// All operations are safe for concurrent use. A single mutex serializes list
// mutation; UsedSize, TotalSize, and CachedMaxFree read atomics and never
// block.
//
// # Related Packages
//
//   - github.com/ChnjFan/mempool/pool: tiered routing across many arenas
//   - github.com/ChnjFan/mempool/internal/format: header layout constants
package arena
