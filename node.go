package nodes

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/nodegraph/nodes/ndebug"
)

// AnyNode is the type-erased view of a [Node]. The engine, the builder and
// graph walkers (sinks, subgraphs, the DOT exporter) operate on AnyNode so
// heterogeneous collections of nodes stay simple; typed access lives on
// Node[T]. Only nodes created by this package implement it.
type AnyNode interface {
	// ID is a unique identifier for this node instance.
	ID() string
	// Name is the display name, with the instance key appended if set.
	Name() string
	// Key is the optional instance tag distinguishing nodes of one kind.
	Key() string
	// Bindings lists the slot bindings of this node in declaration order.
	Bindings() []SlotBinding
	// Dependencies lists the bound child nodes in slot order.
	Dependencies() []AnyNode
	// InputsByName maps input names to nodes, including inputs that are
	// not join dependencies (conditional branches, boolean operands).
	InputsByName() map[string]AnyNode
	// Sinks lists the nodes kicked off after this node settles.
	Sinks() []AnyNode
	// IsOptionalNode reports whether the node's result is presence-wrapped.
	IsOptionalNode() bool
	// CanEmitNull reports whether a null result is admissible.
	CanEmitNull() bool
	// EnclosingSubgraph returns the subgraph exposing this node, if any.
	EnclosingSubgraph() *Subgraph

	start(ctx context.Context)
	done() <-chan struct{}
	result() (any, error)
	deciderRef() *DeciderSupplier
	setEnclosingSubgraph(sg *Subgraph)
}

// SlotBinding is one bound slot of a node. Optional reports the edge
// policy: failures and null values on optional edges are absorbed rather
// than propagated.
type SlotBinding struct {
	Slot     Slot
	Node     AnyNode
	Optional bool
}

type dependency struct {
	slot     Slot
	node     AnyNode
	optional bool
}

// Timings holds the lifecycle timestamps of a node. Valid once the node
// has settled.
type Timings struct {
	Start         time.Time
	EvaluateStart time.Time
	EvaluateStop  time.Time
	Stop          time.Time
}

// Node is a handle to a single, lazily and at-most-once computed value of
// type T. Zero values are not usable; nodes are created by the builder and
// the combinator constructors in this package.
type Node[T any] struct {
	id   string
	name string
	key  string

	deps      []dependency
	sinkNodes []AnyNode
	decider   *DeciderSupplier

	// nullable allows the body to produce a null result.
	nullable bool
	// optionalWrap marks presence-wrapped nodes; they never fail.
	optionalWrap bool
	absentValue  func() any

	// joinFn overrides the default all-dependencies join barrier.
	joinFn func(ctx context.Context) error
	evalFn func(ctx context.Context) (T, error)

	// extraInputs supplies inputs that are not join dependencies, for
	// graph walkers.
	extraInputs func() map[string]AnyNode

	sub *Subgraph

	started atomic.Bool
	p       promise
	timings Timings
}

func newNode[T any](name string, deps []dependency) *Node[T] {
	return &Node[T]{
		id:   uuid.NewString(),
		name: name,
		deps: deps,
		p:    newPromiseState(),
	}
}

// ID returns the unique instance identifier.
func (n *Node[T]) ID() string { return n.id }

// Name returns the display name, with the instance key appended if set.
func (n *Node[T]) Name() string {
	if n.key == "" {
		return n.name
	}
	return n.name + ":" + n.key
}

// Key returns the instance key.
func (n *Node[T]) Key() string { return n.key }

// SetKey tags this node instance, disambiguating nodes of the same kind.
func (n *Node[T]) SetKey(key string) *Node[T] {
	n.key = key
	return n
}

// SetSinks replaces the sink list. Sinks are applied, fire and forget,
// after this node settles. Panics if the node has already been applied.
func (n *Node[T]) SetSinks(sinks ...AnyNode) *Node[T] {
	if n.started.Load() {
		panic(fmt.Sprintf("nodes: node [%s] has been applied, sinks can no longer change", n.Name()))
	}
	n.sinkNodes = sinks
	return n
}

// AddSinks appends to the sink list. Panics if the node has already been
// applied.
func (n *Node[T]) AddSinks(sinks ...AnyNode) *Node[T] {
	return n.SetSinks(append(n.sinkNodes, sinks...)...)
}

// Bindings lists the slot bindings in declaration order.
func (n *Node[T]) Bindings() []SlotBinding {
	out := make([]SlotBinding, 0, len(n.deps))
	for _, d := range n.deps {
		out = append(out, SlotBinding{Slot: d.slot, Node: d.node, Optional: d.optional})
	}
	return out
}

// Dependencies lists the bound child nodes in slot order.
func (n *Node[T]) Dependencies() []AnyNode {
	out := make([]AnyNode, 0, len(n.deps))
	for _, d := range n.deps {
		out = append(out, d.node)
	}
	return out
}

// InputsByName maps input names to nodes. For most nodes these are the
// slot bindings; conditional and boolean nodes add their non-dependency
// inputs (branches, operands).
func (n *Node[T]) InputsByName() map[string]AnyNode {
	if n.extraInputs != nil {
		return n.extraInputs()
	}
	out := make(map[string]AnyNode, len(n.deps))
	for _, d := range n.deps {
		out[string(d.slot)] = d.node
	}
	return out
}

// Sinks lists the sink nodes.
func (n *Node[T]) Sinks() []AnyNode { return n.sinkNodes }

// IsOptionalNode reports whether the node's result is presence-wrapped.
func (n *Node[T]) IsOptionalNode() bool { return n.optionalWrap }

// CanEmitNull reports whether a null result is admissible for this node.
func (n *Node[T]) CanEmitNull() bool { return n.nullable }

// EnclosingSubgraph returns the subgraph exposing this node, or nil.
func (n *Node[T]) EnclosingSubgraph() *Subgraph { return n.sub }

// Timings returns the lifecycle timestamps. Valid once the node settled.
func (n *Node[T]) Timings() Timings { return n.timings }

func (n *Node[T]) deciderRef() *DeciderSupplier { return n.decider }

func (n *Node[T]) setEnclosingSubgraph(sg *Subgraph) { n.sub = sg }

// Apply initiates the computation of the node value and returns its result
// handle without blocking.
//
// The first call elects this node for evaluation: dependencies are applied
// recursively, their completions fan in through the join barrier, and the
// body runs once they all settled successfully. Subsequent calls, from any
// goroutine, return a handle on the same promise; the context of the first
// caller is the one that flows through the evaluation (logger via
// logr.FromContext, debug builder via ndebug.FromContext).
func (n *Node[T]) Apply(ctx context.Context) *Future[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	if n.started.CompareAndSwap(false, true) {
		n.timings.Start = time.Now()
		go n.run(ctx)
	}
	return &Future[T]{p: &n.p}
}

func (n *Node[T]) start(ctx context.Context) { n.Apply(ctx) }

func (n *Node[T]) done() <-chan struct{} { return n.p.ch }

func (n *Node[T]) result() (any, error) { return n.p.result() }

// settledValue returns the typed success value. Callers must guarantee the
// node settled successfully, as the join barrier does for dependencies.
func (n *Node[T]) settledValue() T {
	v, _ := n.p.result()
	return typedValue[T](v)
}

func (n *Node[T]) run(ctx context.Context) {
	dbg := ndebug.FromContext(ctx)

	join := n.joinFn
	if join == nil {
		join = n.joinDependencies
	}
	err := join(ctx)

	var value any
	if err == nil {
		if !n.optionalWrap {
			dbg.Detailedf("NODE [%s]: start", n.Name())
		}
		n.timings.EvaluateStart = time.Now()
		if n.decider != nil && !n.decider.Available() {
			dbg.Verbosef("NODE [%s]: decider off, key: %s", n.Name(), n.decider.Key())
			switch {
			case n.optionalWrap:
				value = n.absentValue()
			case n.nullable:
				value = nil
			default:
				err = fmt.Errorf("%w: node [%s], decider key %q", ErrDeciderOff, n.Name(), n.decider.Key())
			}
		} else {
			var v T
			v, err = n.runEvaluate(ctx)
			if err == nil {
				value = normalizeValue(any(v))
				if value == nil && !n.nullable {
					err = fmt.Errorf("%w: node [%s]", ErrNullResult, n.Name())
				}
			}
		}
		n.timings.EvaluateStop = time.Now()
	}

	// Optional-wrapped nodes never fail; any failure becomes absent.
	if err != nil && n.optionalWrap {
		value, err = n.absentValue(), nil
	}

	n.timings.Stop = time.Now()
	if err != nil {
		if !n.optionalWrap {
			logr.FromContextOrDiscard(ctx).V(1).Info("node failed", "node", n.Name(), "err", err)
			dbg.Detailedf("NODE [%s]: failed (%s/%s): %v",
				n.Name(), n.timings.Stop.Sub(n.timings.Start), n.evaluateElapsed(), err)
		}
		n.p.fail(err)
	} else {
		if !n.optionalWrap {
			dbg.Detailedf("NODE [%s]: end (%s/%s)",
				n.Name(), n.timings.Stop.Sub(n.timings.Start), n.evaluateElapsed())
		}
		n.p.complete(value)
	}

	// Sinks are kicked off on every settlement path and never awaited.
	for _, s := range n.sinkNodes {
		s.start(ctx)
	}
}

func (n *Node[T]) evaluateElapsed() time.Duration {
	return n.timings.EvaluateStop.Sub(n.timings.EvaluateStart)
}

// joinDependencies is the default join barrier: start every dependency,
// then wait for all of them to settle. A failed child fails this node with
// the same error; a required child that settled with a null or absent
// value fails it with ErrRequiredInputMissing.
func (n *Node[T]) joinDependencies(ctx context.Context) error {
	for _, d := range n.deps {
		d.node.start(ctx)
	}
	for _, d := range n.deps {
		<-d.node.done()
		v, err := d.node.result()
		if err != nil {
			return err
		}
		if !d.optional && isMissingValue(v) {
			return fmt.Errorf("%w: node [%s], slot %q fed by [%s]",
				ErrRequiredInputMissing, n.Name(), d.slot, d.node.Name())
		}
	}
	return nil
}

func (n *Node[T]) runEvaluate(ctx context.Context) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: node [%s]: %v", ErrEvaluatePanic, n.Name(), r)
		}
	}()
	if n.evalFn == nil {
		return v, fmt.Errorf("node [%s] has no evaluate body", n.Name())
	}
	return n.evalFn(ctx)
}

// Emit reads the already-settled value. It is an error to call Emit on a
// node that is still pending or that settled with a failure; within a node
// body, dependencies are guaranteed to have settled successfully.
func (n *Node[T]) Emit() (T, error) {
	var zero T
	if !n.p.settled() {
		return zero, fmt.Errorf("%w: node [%s]; did you forget to add it as a dependency?",
			ErrNotSettled, n.Name())
	}
	v, err := n.p.result()
	if err != nil {
		return zero, fmt.Errorf("%w: node [%s]: %w", ErrEmitOnFailed, n.Name(), err)
	}
	return typedValue[T](v), nil
}

// MustEmit is like Emit but panics on error.
func (n *Node[T]) MustEmit() T {
	v, err := n.Emit()
	must(err)
	return v
}

// ToFutureSafe returns a handle that always succeeds: failures and null
// results of this node (or anything below it) surface as the zero value.
// The only error the returned future can yield is the caller's own context
// expiring.
func (n *Node[T]) ToFutureSafe(ctx context.Context) *Future[T] {
	inner := n.Apply(ctx)
	out := NewPromise[T]()
	go func() {
		v, err := inner.Get(ctx)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				out.Fail(cerr)
				return
			}
			var zero T
			out.Complete(zero)
			return
		}
		out.Complete(v)
	}()
	return out.Future()
}

// WaitOn returns a node with the same value as this one that does not
// settle until all extras have settled. Failures of the extras are
// absorbed and do not propagate.
func (n *Node[T]) WaitOn(extras ...AnyNode) *Node[T] {
	if len(extras) > len(defaultSlots) {
		panic("nodes: too many nodes to wait on")
	}
	deps := make([]dependency, 0, len(extras))
	for i, e := range extras {
		deps = append(deps, dependency{slot: defaultSlots[i], node: optionalAny(e), optional: true})
	}
	w := newNode[T](n.Name()+"_waited", deps)
	w.nullable = true
	w.evalFn = func(ctx context.Context) (T, error) {
		return n.Apply(ctx).Get(ctx)
	}
	return w
}

// WaitOn is the free-function form of [Node.WaitOn].
func WaitOn[T any](target *Node[T], extras ...AnyNode) *Node[T] {
	return target.WaitOn(extras...)
}

// isNullValue reports whether a settled success value is null: a nil
// interface or a nil pointer, map, slice, channel or function. Values of
// kinds that cannot be nil are never null.
func isNullValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// isMissingValue reports whether a value counts as missing on a required
// edge: null, or an absent presence wrapper.
func isMissingValue(v any) bool {
	if isNullValue(v) {
		return true
	}
	if p, ok := v.(presence); ok {
		return !p.isPresent()
	}
	return false
}

// normalizeValue folds all null representations to a plain nil so
// downstream gating only has one shape to check.
func normalizeValue(v any) any {
	if isNullValue(v) {
		return nil
	}
	return v
}
