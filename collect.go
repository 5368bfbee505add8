package nodes

import (
	"context"
	"fmt"
)

// Collect returns a node whose value is the values of the given nodes in
// the same order. It fails if any element fails or emits null.
func Collect[T any](list []*Node[T]) *Node[[]T] {
	deps := make([]dependency, 0, len(list))
	for i, el := range list {
		deps = append(deps, dependency{slot: Slot(fmt.Sprintf("E%d", i)), node: el, optional: el.IsOptionalNode()})
	}
	n := newNode[[]T](fmt.Sprintf("collect[%d]", len(list)), deps)
	n.evalFn = func(ctx context.Context) ([]T, error) {
		out := make([]T, 0, len(list))
		for _, el := range list {
			out = append(out, el.settledValue())
		}
		return out, nil
	}
	return n
}

// CollectMap returns a node whose value is the map with identical keys and
// the evaluated values. It fails if any entry fails or emits null.
func CollectMap[K comparable, V any](m map[K]*Node[V]) *Node[map[K]V] {
	deps := make([]dependency, 0, len(m))
	i := 0
	for k, el := range m {
		deps = append(deps, dependency{slot: Slot(fmt.Sprintf("K%d[%v]", i, k)), node: el, optional: el.IsOptionalNode()})
		i++
	}
	n := newNode[map[K]V](fmt.Sprintf("collectMap[%d]", len(m)), deps)
	n.evalFn = func(ctx context.Context) (map[K]V, error) {
		out := make(map[K]V, len(m))
		for k, el := range m {
			out[k] = el.settledValue()
		}
		return out, nil
	}
	return n
}

// SplitAndCollect applies f to each element of the list node's value,
// collecting the per-element node results into an output list that
// preserves the input order. When the list node fails the result is null.
func SplitAndCollect[A, B any](list *Node[[]A], name string, f func(A) *Node[B]) *Node[[]B] {
	inner := FlatMap(list, name, func(ctx context.Context, items []A) *Future[[]B] {
		elements := make([]*Node[B], 0, len(items))
		for _, item := range items {
			elements = append(elements, f(item))
		}
		return Collect(elements).Apply(ctx)
	})
	return inner.WhenSuccess(list)
}
