package nodes

import (
	"context"
	"fmt"
)

// Map returns a node whose value is f applied to the value of n. On
// failure of n the result node fails with the same error. Map nodes are
// null-admissible: f may legitimately return a null value.
func Map[A, B any](n *Node[A], name string, f func(A) B) *Node[B] {
	return MapWithDecider(n, nil, name, f)
}

// MapWithDecider is [Map] with a decider gate; when the decider is off the
// result is a null success and f is not invoked.
func MapWithDecider[A, B any](n *Node[A], decider *DeciderSupplier, name string, f func(A) B) *Node[B] {
	t := newTransformNode[A, B](n, name)
	t.decider = decider
	t.evalFn = func(ctx context.Context) (B, error) {
		return f(n.settledValue()), nil
	}
	return t
}

// MapOnSuccess is like [Map], but when n fails or emits null the result is
// null and f is not invoked; no error propagates.
func MapOnSuccess[A, B any](n *Node[A], name string, f func(A) B) *Node[B] {
	return IfSuccessThen(n, Map(n, name, f))
}

// FlatMap is like [Map] for functions that return a deferred value: the
// future returned by f becomes the node's result.
func FlatMap[A, B any](n *Node[A], name string, f func(context.Context, A) *Future[B]) *Node[B] {
	return FlatMapWithDecider(n, nil, name, f)
}

// FlatMapWithDecider is [FlatMap] with a decider gate.
func FlatMapWithDecider[A, B any](n *Node[A], decider *DeciderSupplier, name string, f func(context.Context, A) *Future[B]) *Node[B] {
	t := newTransformNode[A, B](n, name)
	t.decider = decider
	t.evalFn = func(ctx context.Context) (B, error) {
		fut := f(ctx, n.settledValue())
		if fut == nil {
			var zero B
			return zero, fmt.Errorf("%w: node [%s]", ErrNilFuture, t.Name())
		}
		return fut.Get(ctx)
	}
	return t
}

func newTransformNode[A, B any](n *Node[A], name string) *Node[B] {
	if name == "" {
		name = fmt.Sprintf("Transform[%s]", n.Name())
	}
	t := newNode[B](name, []dependency{{slot: "SOURCE", node: n, optional: n.IsOptionalNode()}})
	t.nullable = true
	return t
}

// Predicate returns a boolean node applying pred to the value of n. A
// failure of n propagates.
func (n *Node[T]) Predicate(name string, pred func(T) bool) *Node[bool] {
	if name == "" {
		name = fmt.Sprintf("Predicate[%s]", n.Name())
	}
	p := newNode[bool](name, []dependency{{slot: "SOURCE", node: n, optional: n.IsOptionalNode()}})
	p.evalFn = func(ctx context.Context) (bool, error) {
		return pred(n.settledValue()), nil
	}
	return p
}

// IsNull returns a boolean node reporting whether n emitted a null value.
// Unlike [Node.Predicate], a null value of n is observed rather than
// failing the check.
func (n *Node[T]) IsNull() *Node[bool] {
	return n.nullPredicate(n.Name()+"_isNull", true)
}

// IsNotNull returns a boolean node reporting whether n emitted a non-null
// value.
func (n *Node[T]) IsNotNull() *Node[bool] {
	return n.nullPredicate(n.Name()+"_isNotNull", false)
}

func (n *Node[T]) nullPredicate(name string, wantNull bool) *Node[bool] {
	// The source edge tolerates null: nullness is the observed value here.
	p := newNode[bool](name, []dependency{{slot: "SOURCE", node: n, optional: true}})
	p.evalFn = func(ctx context.Context) (bool, error) {
		v, _ := n.result()
		return isNullValue(v) == wantNull, nil
	}
	return p
}
