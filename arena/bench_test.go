package arena

import "testing"

// BenchmarkAllocateDeallocate measures the steady-state churn cost: one
// allocation immediately returned, so the list stays two chunks long.
func BenchmarkAllocateDeallocate(b *testing.B) {
	a, err := New(1 << 20)
	if err != nil {
		b.Fatal(err)
	}
	defer a.Close()

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		buf, allocErr := a.Allocate(256)
		if allocErr != nil {
			b.Fatal(allocErr)
		}
		if freeErr := a.Deallocate(buf); freeErr != nil {
			b.Fatal(freeErr)
		}
	}
}

// BenchmarkAllocateWalkDepth measures allocation with many live chunks in
// front of the first fit, the worst case for the linear walk.
func BenchmarkAllocateWalkDepth(b *testing.B) {
	a, err := New(1 << 20)
	if err != nil {
		b.Fatal(err)
	}
	defer a.Close()

	// Pin 512 live allocations at the front of the region.
	for range 512 {
		if _, allocErr := a.Allocate(256); allocErr != nil {
			b.Fatal(allocErr)
		}
	}

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		buf, allocErr := a.Allocate(256)
		if allocErr != nil {
			b.Fatal(allocErr)
		}
		if freeErr := a.Deallocate(buf); freeErr != nil {
			b.Fatal(freeErr)
		}
	}
}

// BenchmarkCachedMaxFree measures the lock-free fast-reject read used by
// routing layers.
func BenchmarkCachedMaxFree(b *testing.B) {
	a, err := New(1 << 20)
	if err != nil {
		b.Fatal(err)
	}
	defer a.Close()

	b.ResetTimer()

	for range b.N {
		_ = a.CachedMaxFree()
	}
}
