// Package nodes provides an asynchronous dependency-graph evaluator: a small
// runtime for composing computations as a directed acyclic graph of nodes,
// where each node is a deferred, at-most-once computation that runs only
// after all of its required inputs have completed successfully.
//
// # Overview
//
// A [Node] is a handle to a single lazily computed value. Nodes are wired
// together through named slots, each declared required or optional by the
// node's kind. Asking a root node for its value (via [Node.Apply]) triggers
// recursive, at-most-once evaluation of its dependencies; completions fan in
// through a join barrier, the node's body runs, and the result settles the
// node's one-shot promise. Every consumer of the node observes that same
// promise.
//
// The package separates build-time graph construction from runtime
// execution. Generic type parameters keep the rim of the API type safe;
// inside the engine nodes are type erased behind the [AnyNode] interface so
// heterogeneous dependency maps, sinks and graph walks stay simple.
//
// # Basic usage
//
//	a := nodes.Value(1, "a")
//	b := nodes.Value(2, "b")
//	sum := nodes.Map2("sum", a, b, func(x, y int) int { return x + y })
//
//	v, err := sum.Apply(ctx).Get(ctx)
//
// Custom node kinds declare their slot set and body through the
// [Evaluator] interface and are assembled with a [Builder]:
//
//	type hydrate struct{}
//
//	func (hydrate) Slots() []nodes.SlotSpec {
//		return []nodes.SlotSpec{
//			{ID: "IDS"},
//			{ID: "PREFIX", Optional: true},
//		}
//	}
//
//	func (hydrate) Evaluate(ctx context.Context, in nodes.Inputs) (map[int64]string, error) {
//		ids := nodes.Input[[]int64](in, "IDS")
//		prefix := nodes.InputOr(in, "PREFIX", "default")
//		...
//	}
//
//	n, err := nodes.NewBuilder[map[int64]string](hydrate{}).
//		DependsOn("IDS", idsNode).
//		DependsOn("PREFIX", prefixNode).
//		Build()
//
// Unbound optional slots default to a shared absent sentinel; binding a
// plain node to an optional slot wraps it so failures on that edge become
// absent instead of propagating.
//
// # Failure semantics
//
// Failures propagate upward through required edges without transformation.
// Optional edges absorb failures and null values, substituting absent.
// A node whose body returns a null value fails unless the node is
// null-admissible. Combinators in the "on success" family (MapOnSuccess,
// OrElse, WhenSuccess) absorb failures by contract; all others propagate.
//
// All build and evaluation failure modes use sentinel errors
// (ErrMissingDependency, ErrRequiredInputMissing, ...) that can be checked
// with errors.Is().
//
// # Thread safety
//
// [Builder] is NOT safe for concurrent use; all registration methods must
// be called from a single goroutine. Built nodes are safe to Apply from any
// number of goroutines: the first-call election and promise settlement are
// atomic, and the body executes at most once regardless of concurrent
// callers.
//
// # Cancellation
//
// The engine never cancels in-flight work. When a conditional selects one
// branch, or a boolean combinator short-circuits, computations already
// started keep running and settle with their results discarded. A caller
// waiting on a handle may impose its own deadline through the context
// passed to [Future.Get]; the underlying computation continues past it.
package nodes
