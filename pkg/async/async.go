package async

import (
	"context"
	"time"
)

// Future represents the pending result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await blocks until the computation completes and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout blocks until the computation completes or the timeout
// elapses, in which case it returns ErrTimeout.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the computation has finished without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Resolved returns an already-completed future holding the given result.
// Useful when a code path can answer synchronously but the caller expects
// a Future.
func Resolved[U any](result U, err error) *Future[U] {
	f := &Future[U]{result: result, err: err, done: make(chan struct{})}
	close(f.done)
	return f
}

// Run executes fn in a new goroutine and returns a Future for its outcome.
// If ctx is already cancelled the future resolves immediately with ctx.Err()
// and fn is never invoked.
func Run[U any](ctx context.Context, fn func(context.Context) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.result, f.err = fn(ctx)
	}()

	return f
}

// WaitAll awaits every future in order and returns their results.
// The returned error is the first non-nil error encountered; results of
// earlier futures are still populated.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	var firstErr error
	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return results, firstErr
}
