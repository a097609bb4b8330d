package native

import (
	"context"

	"github.com/wippyai/rtc-registry/errors"
)

const defaultPoolSize = 8

// Pool bounds the number of concurrently running construction calls so that
// slow constructors never occupy more than a fixed share of the process,
// leaving the host runtime's latency-sensitive threads unstarved.
//
// There is no cancellation of in-flight constructions: a caller whose
// context expires gets an error back, but the construction runs to
// completion and its resource stays registered. The caller simply discards
// the handle it never saw.
type Pool struct {
	slots chan struct{}
}

// NewPool creates a pool with the given number of slots.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = defaultPoolSize
	}
	return &Pool{slots: make(chan struct{}, size)}
}

type outcome[T any] struct {
	value T
	err   error
}

// dispatch runs fn on n's pool. It waits for a slot and for fn's result,
// giving up on either wait when ctx expires. fn keeps running after a
// give-up; only the caller's wait is abandoned. A panic inside fn is
// recovered on the worker goroutine and reported as an internal error —
// it never takes the process down.
func dispatch[T any](ctx context.Context, n *Native, op string, fn func() (T, error)) (T, error) {
	var zero T

	select {
	case n.pool.slots <- struct{}{}:
	case <-ctx.Done():
		return zero, errors.Canceled(op, ctx.Err())
	}

	ch := make(chan outcome[T], 1)
	go func() {
		defer func() { <-n.pool.slots }()
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome[T]{err: n.recovered(op, r)}
			}
		}()
		v, err := fn()
		ch <- outcome[T]{value: v, err: err}
	}()

	select {
	case out := <-ch:
		return out.value, out.err
	case <-ctx.Done():
		return zero, errors.Canceled(op, ctx.Err())
	}
}
