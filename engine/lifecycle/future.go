package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

var (
	// ErrPending is returned by Future.Result before the load has been applied.
	ErrPending = errors.New("lifecycle: load pending")

	// ErrLoadPanicked wraps the value recovered from a load function that panicked.
	ErrLoadPanicked = errors.New("lifecycle: load panicked")
)

// Future is the eventual result of a Load.
// It resolves on the frame thread once the result has been applied, or when the load fails or is disposed.
type Future[T any] struct {
	name  string
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

func newFuture[T any](name string) *Future[T] {
	return &Future[T]{name: name, done: make(chan struct{})}
}

// Name returns the load name.
func (f *Future[T]) Name() string {
	return f.name
}

// Done returns a channel that is closed once the future resolves.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result returns the loaded value without blocking.
//
// Returns:
//   - T: the loaded value, or the zero value if the load failed or is pending
//   - error: ErrPending, ErrDisposed or the load error
func (f *Future[T]) Result() (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
		var zero T
		return zero, ErrPending
	}
}

// Wait blocks until the future resolves or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.value, f.err = v, err
		close(f.done)
	})
}

// Load runs load on the Lifecycle's worker pool and hands its result to apply on the next Poll.
// If the Lifecycle is released before the result is applied, discard receives it instead.
//
// Parameters:
//   - l: the owning Lifecycle
//   - name: load name used in log output and errors
//   - load: produces the value; ctx is cancelled on Release
//   - apply: consumes the value on the frame thread; may be nil
//   - discard: frees a value that will never be applied; may be nil
//
// Returns:
//   - *Future[T]: the eventual result
func Load[T any](l Lifecycle, name string, load func(ctx context.Context) (T, error), apply func(T), discard func(T)) *Future[T] {
	f := newFuture[T](name)
	var zero T

	run := func(ctx context.Context) (deliver, drop func()) {
		v, err := runLoad(ctx, load)
		deliver = func() {
			if err != nil {
				log.Printf("[Lifecycle] load %s failed: %v", name, err)
				f.resolve(zero, fmt.Errorf("load %s: %w", name, err))
				return
			}
			if apply != nil {
				apply(v)
			}
			f.resolve(v, nil)
		}
		drop = func() {
			if err == nil && discard != nil {
				discard(v)
			}
			f.resolve(zero, ErrDisposed)
		}
		return deliver, drop
	}

	if !l.submit(name, run, func() { f.resolve(zero, ErrDisposed) }) {
		f.resolve(zero, ErrDisposed)
	}
	return f
}

// runLoad calls load, converting a panic into an ErrLoadPanicked error so a bad asset cannot take down
// the worker goroutine.
func runLoad[T any](ctx context.Context, load func(ctx context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, fmt.Errorf("%w: %v", ErrLoadPanicked, r)
		}
	}()
	return load(ctx)
}
