package arena

import "errors"

var (
	// ErrRegionSize indicates a construction size too small to hold one header
	// and one minimum-size chunk.
	ErrRegionSize = errors.New("arena: region size too small")

	// ErrInvalidSize indicates a zero or negative allocation request.
	ErrInvalidSize = errors.New("arena: allocation size must be positive")

	// ErrNoSpace indicates that no free chunk large enough was found. This is
	// ordinary exhaustion, not corruption.
	ErrNoSpace = errors.New("arena: no free chunk large enough")

	// ErrNilBuffer indicates a nil or empty buffer passed to Deallocate.
	ErrNilBuffer = errors.New("arena: nil buffer")

	// ErrForeignBuffer indicates a buffer that does not belong to this arena:
	// outside the region, or not preceded by a valid chunk header.
	ErrForeignBuffer = errors.New("arena: buffer does not belong to this arena")

	// ErrDoubleFree indicates a buffer whose chunk is already marked free.
	ErrDoubleFree = errors.New("arena: buffer already freed")

	// ErrClosed indicates use of an arena after Close.
	ErrClosed = errors.New("arena: closed")
)
