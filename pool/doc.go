// Package pool provides a tiered memory pool that routes allocations across
// many fixed-size arenas.
//
// # Overview
//
// A Manager owns three tiers of arenas (small, medium, large; 256 KiB, 1 MiB
// and 4 MiB by default) and sends each request to the smallest tier whose
// arenas can hold it. When every arena of that tier is out of space the
// request escalates into the next tier, so small allocations can spill into
// medium and large arenas under pressure. Requests beyond the large tier's
// capacity fail immediately with ErrTooLarge, which keeps "this can never
// fit" distinct from "nothing fits right now" (ErrExhausted).
//
// Within a tier, arenas are probed in order and an arena is skipped without
// taking its lock when its cached largest-free-chunk size already rules the
// request out.
//
// # Usage Example
//
//	m, err := pool.NewManager(pool.DefaultConfig)
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	buf, err := m.Allocate(4096)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// The manager finds the owning arena on its own.
//	err = m.Deallocate(buf)
//
// # Observability
//
// Statistics aggregates usage and fragmentation across the pool, Report
// renders a per-arena table, and AllocationCount/DeallocationCount track
// lifetime operation counts. CompactAll runs a coalescing sweep over every
// arena and reports how many merges it performed.
//
// # Thread Safety
//
// All methods are safe for concurrent use. A manager mutex serializes
// routing; each arena keeps its own lock for chunk-list mutation.
//
// # Related Packages
//
//   - github.com/ChnjFan/mempool/arena: the single-region allocator
//   - github.com/ChnjFan/mempool/objpool: typed object pooling
package pool
