// Package objpool provides a generic fixed-capacity object pool with strict
// acquire/release membership tracking.
//
// A Pool pre-allocates a configurable number of objects and lends them out
// through Acquire. Released objects return to a FIFO free queue for reuse, so
// the pool never holds more than its configured maximum and steady-state use
// allocates nothing. Only objects currently lent out may be released: nil
// pointers, foreign objects, and double releases are rejected without
// touching pool state.
package objpool

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/eapache/queue"
)

var (
	// ErrConfig indicates an invalid initial/max combination.
	ErrConfig = errors.New("objpool: invalid pool configuration")

	// ErrExhausted indicates every object up to the maximum is in use.
	ErrExhausted = errors.New("objpool: all objects in use")

	// ErrNotAcquired indicates a release of an object the pool has not lent
	// out: nil, foreign, or already released.
	ErrNotAcquired = errors.New("objpool: object not acquired from this pool")

	// ErrClosed indicates use of a pool after Close.
	ErrClosed = errors.New("objpool: closed")
)

// Option configures a Pool at construction time.
type Option[T any] func(*Pool[T])

// WithNew supplies the factory used for pre-allocation and growth. The
// default factory is new(T).
func WithNew[T any](fn func() *T) Option[T] {
	return func(p *Pool[T]) {
		if fn != nil {
			p.newFn = fn
		}
	}
}

// WithLogger routes pool warnings (invalid releases) to l. By default the
// pool is silent.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(p *Pool[T]) {
		if l != nil {
			p.log = l
		}
	}
}

// Pool lends out pointers to T up to a fixed maximum. All methods are safe
// for concurrent use.
type Pool[T any] struct {
	mu      sync.Mutex
	free    *queue.Queue // FIFO of idle *T
	used    map[*T]struct{}
	maxSize int
	created int // objects constructed so far, never exceeds maxSize
	peak    int // high-water mark of len(used)
	newFn   func() *T
	log     *slog.Logger
	closed  bool
}

// New creates a pool holding initialSize pre-allocated objects with room to
// grow to maxSize. initialSize must be in [0, maxSize] and maxSize positive.
func New[T any](initialSize, maxSize int, opts ...Option[T]) (*Pool[T], error) {
	if maxSize <= 0 || initialSize < 0 || initialSize > maxSize {
		return nil, fmt.Errorf("%w: initial %d, max %d", ErrConfig, initialSize, maxSize)
	}

	p := &Pool[T]{
		free:    queue.New(),
		used:    make(map[*T]struct{}, maxSize),
		maxSize: maxSize,
		newFn:   func() *T { return new(T) },
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}

	for range initialSize {
		p.free.Add(p.newFn())
		p.created++
	}
	return p, nil
}

// Acquire returns an idle object, constructing a new one while the pool is
// below its maximum. When every object is lent out it returns ErrExhausted.
func (p *Pool[T]) Acquire() (*T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}

	var obj *T
	switch {
	case p.free.Length() > 0:
		obj = p.free.Remove().(*T)
	case p.created < p.maxSize:
		obj = p.newFn()
		p.created++
	default:
		return nil, ErrExhausted
	}

	p.used[obj] = struct{}{}
	if len(p.used) > p.peak {
		p.peak = len(p.used)
	}
	return obj, nil
}

// Release returns a lent-out object to the free queue. Objects the pool has
// not lent out are rejected with ErrNotAcquired and logged as warnings.
func (p *Pool[T]) Release(obj *T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	if _, ok := p.used[obj]; !ok {
		p.log.Warn("release of object not acquired from pool")
		return ErrNotAcquired
	}
	delete(p.used, obj)
	p.free.Add(obj)
	return nil
}

// FreeCount returns the number of idle objects.
func (p *Pool[T]) FreeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0
	}
	return p.free.Length()
}

// UsedCount returns the number of objects currently lent out.
func (p *Pool[T]) UsedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.used)
}

// PeakUsed returns the high-water mark of simultaneously lent-out objects.
func (p *Pool[T]) PeakUsed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.peak
}

// Capacity returns the configured maximum object count.
func (p *Pool[T]) Capacity() int {
	return p.maxSize
}

// Close drops every object, idle and lent out alike, and marks the pool
// closed. Closing twice is a no-op; Acquire and Release fail with ErrClosed
// afterwards.
func (p *Pool[T]) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.free = nil
	p.used = nil
	return nil
}
