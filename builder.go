package nodes

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// Builder constructs a node of a given kind by binding slots to child
// nodes.
//
// IMPORTANT: Builder is NOT safe for concurrent use. All binding methods
// must be called from a single goroutine. The resulting node is immutable
// wiring-wise and safe to use concurrently.
//
// Binding errors are accumulated and reported together by [Builder.Build],
// each wrapped around its sentinel (ErrUnknownSlot, ErrSlotAlreadyBound,
// ErrMissingDependency, ...).
type Builder[T any] struct {
	kind  Evaluator[T]
	specs []SlotSpec
	anon  bool

	deps  []dependency
	bound map[Slot]bool
	errs  error

	decider *DeciderSupplier
	sinks   []AnyNode
	key     string
}

// NewBuilder creates a builder for the given kind.
func NewBuilder[T any](kind Evaluator[T]) *Builder[T] {
	specs := kind.Slots()
	return &Builder[T]{
		kind:  kind,
		specs: specs,
		anon:  specs == nil,
		bound: make(map[Slot]bool),
	}
}

// DependsOn binds a slot to a child node. Binding a plain node to an
// optional slot wraps it so that a failure or null on that edge becomes
// absent instead of propagating.
func (b *Builder[T]) DependsOn(slot Slot, n AnyNode) *Builder[T] {
	if n == nil {
		b.errs = multierr.Append(b.errs, fmt.Errorf("%w: nil node for slot %q", ErrInvalidDependency, slot))
		return b
	}
	optional, known := b.slotPolicy(slot)
	if !known {
		b.errs = multierr.Append(b.errs, fmt.Errorf("%w: slot %q on kind %s", ErrUnknownSlot, slot, kindName(b.kind)))
		return b
	}
	if b.bound[slot] {
		b.errs = multierr.Append(b.errs, fmt.Errorf("%w: slot %q", ErrSlotAlreadyBound, slot))
		return b
	}
	if optional {
		n = optionalAny(n)
	}
	b.bound[slot] = true
	b.deps = append(b.deps, dependency{slot: slot, node: n, optional: optional})
	return b
}

func (b *Builder[T]) slotPolicy(slot Slot) (optional, known bool) {
	if b.anon {
		for _, s := range defaultSlots {
			if s == slot {
				return false, true
			}
		}
		return false, false
	}
	for _, s := range b.specs {
		if s.ID == slot {
			return s.Optional, true
		}
	}
	return false, false
}

// WithDecider gates the node's body behind the given decider.
func (b *Builder[T]) WithDecider(d *DeciderSupplier) *Builder[T] {
	b.decider = d
	return b
}

// WithSinks sets the nodes to kick off after the built node settles.
func (b *Builder[T]) WithSinks(sinks ...AnyNode) *Builder[T] {
	b.sinks = sinks
	return b
}

// WithKey tags the built node instance.
func (b *Builder[T]) WithKey(key string) *Builder[T] {
	b.key = key
	return b
}

// Build validates the bindings and returns the node. All declared required
// slots must be bound; unbound optional slots are bound to the shared
// absent sentinel. The returned error names every violation.
func (b *Builder[T]) Build() (*Node[T], error) {
	errs := b.errs
	if b.anon && len(b.deps) > len(defaultSlots) {
		errs = multierr.Append(errs, fmt.Errorf("%w: %d bound, maximum %d",
			ErrTooManyDependencies, len(b.deps), len(defaultSlots)))
	}

	deps := b.deps
	if !b.anon {
		// Reorder to declaration order, defaulting unbound optional slots
		// and collecting unbound required ones.
		byslot := make(map[Slot]dependency, len(b.deps))
		for _, d := range b.deps {
			byslot[d.slot] = d
		}
		optional := optionalSlotsOf(b.kind, b.specs)
		deps = make([]dependency, 0, len(b.specs))
		for _, s := range b.specs {
			d, ok := byslot[s.ID]
			switch {
			case ok:
				deps = append(deps, d)
			case optional[s.ID]:
				deps = append(deps, dependency{slot: s.ID, node: absentSentinel, optional: true})
			default:
				errs = multierr.Append(errs, fmt.Errorf("%w: slot %q on kind %s",
					ErrMissingDependency, s.ID, kindName(b.kind)))
			}
		}
	}
	if errs != nil {
		return nil, errs
	}

	kind := b.kind
	n := newNode[T](kindName(kind), deps)
	if nk, ok := any(kind).(NullableKind); ok && nk.CanEmitNull() {
		n.nullable = true
	}
	n.decider = b.decider
	n.sinkNodes = b.sinks
	n.key = b.key
	n.evalFn = func(ctx context.Context) (T, error) {
		return kind.Evaluate(ctx, Inputs{deps: deps})
	}
	return n, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder[T]) MustBuild() *Node[T] {
	n, err := b.Build()
	must(err)
	return n
}

// Build assembles a node from positional (slot, node) pairs, merging
// builder creation and binding into one call:
//
//	n, err := nodes.Build[int](sumKind{},
//		SlotA, aNode,
//		SlotB, bNode,
//	)
func Build[T any](kind Evaluator[T], pairs ...any) (*Node[T], error) {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d arguments", ErrOddDependencyPairs, len(pairs))
	}
	b := NewBuilder[T](kind)
	for i := 0; i < len(pairs); i += 2 {
		slot, ok := pairs[i].(Slot)
		if !ok {
			return nil, fmt.Errorf("%w: argument %d is %T, want Slot", ErrInvalidDependency, i, pairs[i])
		}
		n, ok := pairs[i+1].(AnyNode)
		if !ok {
			return nil, fmt.Errorf("%w: argument %d is %T, want a node", ErrInvalidDependency, i+1, pairs[i+1])
		}
		b.DependsOn(slot, n)
	}
	return b.Build()
}

// MustBuild is like [Build] but panics on error.
func MustBuild[T any](kind Evaluator[T], pairs ...any) *Node[T] {
	n, err := Build(kind, pairs...)
	must(err)
	return n
}
