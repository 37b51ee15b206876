package pool

import "errors"

var (
	// ErrConfig indicates an invalid Config was passed to NewManager.
	ErrConfig = errors.New("pool: invalid configuration")

	// ErrInvalidSize indicates a zero or negative allocation size.
	ErrInvalidSize = errors.New("pool: allocation size must be positive")

	// ErrTooLarge indicates a request beyond the large tier's usable
	// capacity. No pool geometry change short of a bigger large arena can
	// satisfy it, so no arena is probed.
	ErrTooLarge = errors.New("pool: allocation exceeds large arena capacity")

	// ErrExhausted indicates every eligible arena was probed and none had a
	// chunk large enough. Freeing or compacting can clear this condition.
	ErrExhausted = errors.New("pool: all arenas exhausted")

	// ErrNotOwned indicates a deallocation of a buffer no arena contains.
	ErrNotOwned = errors.New("pool: buffer not owned by any arena")

	// ErrClosed indicates use of a manager after Close.
	ErrClosed = errors.New("pool: closed")
)
