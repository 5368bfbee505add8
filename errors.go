package nodes

import "errors"

// Sentinel errors raised while building a node graph. They are reported
// synchronously by [Builder.Build] or [Build], wrapped with the offending
// slot and node names; ErrNoExposedNodes is reported by [MarkExposed] and
// [Subgraph.MarkExposedNodes].
var (
	ErrUnknownSlot         = errors.New("slot not declared by node kind")
	ErrSlotAlreadyBound    = errors.New("slot already bound")
	ErrMissingDependency   = errors.New("required slot not bound")
	ErrOddDependencyPairs  = errors.New("dependencies must come in (slot, node) pairs")
	ErrTooManyDependencies = errors.New("too many dependencies for anonymous slots")
	ErrInvalidDependency   = errors.New("invalid dependency binding")
	ErrNoExposedNodes      = errors.New("subgraph has no exposed nodes")
)

// Sentinel errors raised while evaluating a graph. They settle the failing
// node's promise and, through required edges, the promises of its
// dependents.
var (
	// ErrRequiredInputMissing reports a required slot whose child settled
	// successfully but with a null (or absent) value.
	ErrRequiredInputMissing = errors.New("required input is missing")

	// ErrNullResult reports a body that produced a null value on a node
	// that does not admit null results.
	ErrNullResult = errors.New("evaluate returned null on a non-nullable node")

	// ErrDeciderOff reports a node whose decider suppressed execution and
	// that is neither optional-wrapped nor null-admissible.
	ErrDeciderOff = errors.New("node suppressed by decider")

	// ErrEvaluatePanic wraps a panic recovered from a node body or a
	// user-supplied callable.
	ErrEvaluatePanic = errors.New("evaluate panicked")

	// ErrNilFuture reports a flat-map function that returned a nil future.
	ErrNilFuture = errors.New("nil future returned from evaluate")
)

// Programmer errors reported by [Node.Emit].
var (
	ErrNotSettled   = errors.New("emit on unsettled node")
	ErrEmitOnFailed = errors.New("emit on failed node")
)

func must(err error) {
	if err != nil {
		panic(err)
	}
}
