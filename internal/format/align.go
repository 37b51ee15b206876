package format

// Alignment utilities for pool allocations. Requested sizes are rounded up to
// the allocation granularity before any chunk fitting happens, so padding and
// fragmentation math all operate on aligned sizes.

// AlignUp returns n rounded up to the next multiple of alignment.
// alignment must be a power of two; callers pass the package constants, so
// the precondition is not checked here. AlignUp(0, a) is 0 and an alignment
// of 1 returns n unchanged.
//
// Example:
//
//	AlignUp(1, 16)  = 16
//	AlignUp(16, 16) = 16
//	AlignUp(17, 16) = 32
func AlignUp(n, alignment int) int {
	return (n + alignment - 1) & ^(alignment - 1)
}

// Align16 returns n aligned up to the next 16-byte boundary, the default
// allocation granularity.
//
// Example:
//
//	Align16(1)  = 16
//	Align16(16) = 16
//	Align16(33) = 48
func Align16(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}
