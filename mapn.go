package nodes

import (
	"context"
	"fmt"
)

// Multi-input transforms. Each MapN/FlatMapN node binds its inputs to the
// anonymous positional slots, all required: any input failure propagates
// and the function only runs once every input succeeded with a non-null
// value.

func listDeps(ns ...AnyNode) []dependency {
	deps := make([]dependency, 0, len(ns))
	for i, n := range ns {
		deps = append(deps, dependency{slot: defaultSlots[i], node: n, optional: n.IsOptionalNode()})
	}
	return deps
}

// Map2 applies a binary function to the values of two nodes.
func Map2[X, A, B any](name string, an *Node[A], bn *Node[B], f func(A, B) X) *Node[X] {
	n := newNode[X](name, listDeps(an, bn))
	n.evalFn = func(ctx context.Context) (X, error) {
		return f(an.settledValue(), bn.settledValue()), nil
	}
	return n
}

// Map3 applies a ternary function to the values of three nodes.
func Map3[X, A, B, C any](name string, an *Node[A], bn *Node[B], cn *Node[C], f func(A, B, C) X) *Node[X] {
	n := newNode[X](name, listDeps(an, bn, cn))
	n.evalFn = func(ctx context.Context) (X, error) {
		return f(an.settledValue(), bn.settledValue(), cn.settledValue()), nil
	}
	return n
}

// Map4 applies a 4-ary function to the values of four nodes.
func Map4[X, A, B, C, D any](name string, an *Node[A], bn *Node[B], cn *Node[C], dn *Node[D], f func(A, B, C, D) X) *Node[X] {
	n := newNode[X](name, listDeps(an, bn, cn, dn))
	n.evalFn = func(ctx context.Context) (X, error) {
		return f(an.settledValue(), bn.settledValue(), cn.settledValue(), dn.settledValue()), nil
	}
	return n
}

// Map5 applies a 5-ary function to the values of five nodes.
func Map5[X, A, B, C, D, E any](name string, an *Node[A], bn *Node[B], cn *Node[C], dn *Node[D], en *Node[E], f func(A, B, C, D, E) X) *Node[X] {
	n := newNode[X](name, listDeps(an, bn, cn, dn, en))
	n.evalFn = func(ctx context.Context) (X, error) {
		return f(an.settledValue(), bn.settledValue(), cn.settledValue(), dn.settledValue(), en.settledValue()), nil
	}
	return n
}

// Map6 applies a 6-ary function to the values of six nodes.
func Map6[X, A, B, C, D, E, F any](name string, an *Node[A], bn *Node[B], cn *Node[C], dn *Node[D], en *Node[E], fn *Node[F], f func(A, B, C, D, E, F) X) *Node[X] {
	n := newNode[X](name, listDeps(an, bn, cn, dn, en, fn))
	n.evalFn = func(ctx context.Context) (X, error) {
		return f(an.settledValue(), bn.settledValue(), cn.settledValue(), dn.settledValue(), en.settledValue(), fn.settledValue()), nil
	}
	return n
}

// Map7 applies a 7-ary function to the values of seven nodes.
func Map7[X, A, B, C, D, E, F, G any](name string, an *Node[A], bn *Node[B], cn *Node[C], dn *Node[D], en *Node[E], fn *Node[F], gn *Node[G], f func(A, B, C, D, E, F, G) X) *Node[X] {
	n := newNode[X](name, listDeps(an, bn, cn, dn, en, fn, gn))
	n.evalFn = func(ctx context.Context) (X, error) {
		return f(an.settledValue(), bn.settledValue(), cn.settledValue(), dn.settledValue(), en.settledValue(), fn.settledValue(), gn.settledValue()), nil
	}
	return n
}

// Map8 applies an 8-ary function to the values of eight nodes.
func Map8[X, A, B, C, D, E, F, G, H any](name string, an *Node[A], bn *Node[B], cn *Node[C], dn *Node[D], en *Node[E], fn *Node[F], gn *Node[G], hn *Node[H], f func(A, B, C, D, E, F, G, H) X) *Node[X] {
	n := newNode[X](name, listDeps(an, bn, cn, dn, en, fn, gn, hn))
	n.evalFn = func(ctx context.Context) (X, error) {
		return f(an.settledValue(), bn.settledValue(), cn.settledValue(), dn.settledValue(), en.settledValue(), fn.settledValue(), gn.settledValue(), hn.settledValue()), nil
	}
	return n
}

// FlatMap2 is [Map2] for functions returning a deferred value.
func FlatMap2[X, A, B any](name string, an *Node[A], bn *Node[B], f func(context.Context, A, B) *Future[X]) *Node[X] {
	n := newNode[X](name, listDeps(an, bn))
	n.evalFn = func(ctx context.Context) (X, error) {
		return waitFuture(ctx, n, f(ctx, an.settledValue(), bn.settledValue()))
	}
	return n
}

// FlatMap3 is [Map3] for functions returning a deferred value.
func FlatMap3[X, A, B, C any](name string, an *Node[A], bn *Node[B], cn *Node[C], f func(context.Context, A, B, C) *Future[X]) *Node[X] {
	n := newNode[X](name, listDeps(an, bn, cn))
	n.evalFn = func(ctx context.Context) (X, error) {
		return waitFuture(ctx, n, f(ctx, an.settledValue(), bn.settledValue(), cn.settledValue()))
	}
	return n
}

// FlatMap4 is [Map4] for functions returning a deferred value.
func FlatMap4[X, A, B, C, D any](name string, an *Node[A], bn *Node[B], cn *Node[C], dn *Node[D], f func(context.Context, A, B, C, D) *Future[X]) *Node[X] {
	n := newNode[X](name, listDeps(an, bn, cn, dn))
	n.evalFn = func(ctx context.Context) (X, error) {
		return waitFuture(ctx, n, f(ctx, an.settledValue(), bn.settledValue(), cn.settledValue(), dn.settledValue()))
	}
	return n
}

// FlatMap5 is [Map5] for functions returning a deferred value.
func FlatMap5[X, A, B, C, D, E any](name string, an *Node[A], bn *Node[B], cn *Node[C], dn *Node[D], en *Node[E], f func(context.Context, A, B, C, D, E) *Future[X]) *Node[X] {
	n := newNode[X](name, listDeps(an, bn, cn, dn, en))
	n.evalFn = func(ctx context.Context) (X, error) {
		return waitFuture(ctx, n, f(ctx, an.settledValue(), bn.settledValue(), cn.settledValue(), dn.settledValue(), en.settledValue()))
	}
	return n
}

// FlatMap6 is [Map6] for functions returning a deferred value.
func FlatMap6[X, A, B, C, D, E, F any](name string, an *Node[A], bn *Node[B], cn *Node[C], dn *Node[D], en *Node[E], fn *Node[F], f func(context.Context, A, B, C, D, E, F) *Future[X]) *Node[X] {
	n := newNode[X](name, listDeps(an, bn, cn, dn, en, fn))
	n.evalFn = func(ctx context.Context) (X, error) {
		return waitFuture(ctx, n, f(ctx, an.settledValue(), bn.settledValue(), cn.settledValue(), dn.settledValue(), en.settledValue(), fn.settledValue()))
	}
	return n
}

// FlatMap7 is [Map7] for functions returning a deferred value.
func FlatMap7[X, A, B, C, D, E, F, G any](name string, an *Node[A], bn *Node[B], cn *Node[C], dn *Node[D], en *Node[E], fn *Node[F], gn *Node[G], f func(context.Context, A, B, C, D, E, F, G) *Future[X]) *Node[X] {
	n := newNode[X](name, listDeps(an, bn, cn, dn, en, fn, gn))
	n.evalFn = func(ctx context.Context) (X, error) {
		return waitFuture(ctx, n, f(ctx, an.settledValue(), bn.settledValue(), cn.settledValue(), dn.settledValue(), en.settledValue(), fn.settledValue(), gn.settledValue()))
	}
	return n
}

// FlatMap8 is [Map8] for functions returning a deferred value.
func FlatMap8[X, A, B, C, D, E, F, G, H any](name string, an *Node[A], bn *Node[B], cn *Node[C], dn *Node[D], en *Node[E], fn *Node[F], gn *Node[G], hn *Node[H], f func(context.Context, A, B, C, D, E, F, G, H) *Future[X]) *Node[X] {
	n := newNode[X](name, listDeps(an, bn, cn, dn, en, fn, gn, hn))
	n.evalFn = func(ctx context.Context) (X, error) {
		return waitFuture(ctx, n, f(ctx, an.settledValue(), bn.settledValue(), cn.settledValue(), dn.settledValue(), en.settledValue(), fn.settledValue(), gn.settledValue(), hn.settledValue()))
	}
	return n
}

func waitFuture[X any](ctx context.Context, n *Node[X], fut *Future[X]) (X, error) {
	if fut == nil {
		var zero X
		return zero, fmt.Errorf("%w: node [%s]", ErrNilFuture, n.Name())
	}
	return fut.Get(ctx)
}
