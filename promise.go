package nodes

import (
	"context"
	"sync"
)

// promise is the one-shot result cell backing every node. It transitions
// exactly once from pending to settled; later settle attempts are ignored.
type promise struct {
	once  sync.Once
	ch    chan struct{}
	value any
	err   error
}

func newPromiseState() promise {
	return promise{ch: make(chan struct{})}
}

func (p *promise) complete(v any) { p.settle(v, nil) }

func (p *promise) fail(err error) { p.settle(nil, err) }

func (p *promise) settle(v any, err error) {
	p.once.Do(func() {
		p.value = v
		p.err = err
		close(p.ch)
	})
}

func (p *promise) settled() bool {
	select {
	case <-p.ch:
		return true
	default:
		return false
	}
}

// result must only be called after the promise settled.
func (p *promise) result() (any, error) {
	return p.value, p.err
}

// Future is a read handle on a node's promise. Futures obtained from the
// same node share the underlying promise, so every holder observes the same
// settlement.
type Future[T any] struct {
	p *promise
}

// Done returns a channel that is closed once the promise settles.
func (f *Future[T]) Done() <-chan struct{} { return f.p.ch }

// Get blocks until the promise settles or ctx expires. On ctx expiry the
// underlying computation keeps running; only this wait is abandoned.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-f.p.ch:
	}
	v, err := f.p.result()
	if err != nil {
		var zero T
		return zero, err
	}
	return typedValue[T](v), nil
}

// MustGet is like Get but panics on error.
func (f *Future[T]) MustGet(ctx context.Context) T {
	v, err := f.Get(ctx)
	must(err)
	return v
}

// Promise is a completable promise for adapting external asynchronous
// producers into the graph, typically through [WrapFuture]. Completion is
// first-wins and permanent.
type Promise[T any] struct {
	p promise
}

// NewPromise creates an unsettled promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{p: newPromiseState()}
}

// Complete settles the promise with a value. No-op if already settled.
func (p *Promise[T]) Complete(v T) { p.p.complete(normalizeValue(any(v))) }

// Fail settles the promise with an error. No-op if already settled.
func (p *Promise[T]) Fail(err error) { p.p.fail(err) }

// Future returns the read handle for this promise.
func (p *Promise[T]) Future() *Future[T] { return &Future[T]{p: &p.p} }

func typedValue[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
