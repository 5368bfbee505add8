package nodes

import "context"

// Option is the presence wrapper carried on optional edges. An optional
// edge whose underlying node failed or produced null yields None; a
// successful non-null result yields Some.
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] { return Option[T]{value: v, ok: true} }

// None returns an absent Option.
func None[T any]() Option[T] { return Option[T]{} }

// Get returns the contained value and whether it is present.
func (o Option[T]) Get() (T, bool) { return o.value, o.ok }

// IsPresent reports whether the Option holds a value.
func (o Option[T]) IsPresent() bool { return o.ok }

// Or returns the contained value, or def when absent.
func (o Option[T]) Or(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// presence is the erased view of Option used by the engine to gate on
// absent values without knowing the element type.
type presence interface {
	isPresent() bool
	anyValue() any
}

func (o Option[T]) isPresent() bool { return o.ok }

func (o Option[T]) anyValue() any {
	if !o.ok {
		return nil
	}
	return any(o.value)
}

// Optional wraps a node so that it always succeeds: the result is
// Some(value) on non-null success and None on failure or null. The wrapper
// inherits the wrapped node's decider, so a suppressed node surfaces as
// absent rather than as an error. A nil node yields [Absent].
func Optional[T any](n *Node[T]) *Node[Option[T]] {
	if n == nil {
		return Absent[T]()
	}
	w := newNode[Option[T]]("~"+n.Name(), []dependency{{slot: "WRAPPED", node: n}})
	w.optionalWrap = true
	w.absentValue = func() any { return None[T]() }
	w.decider = n.decider
	w.evalFn = func(ctx context.Context) (Option[T], error) {
		// The join guarantees the wrapped node settled successfully with a
		// non-null value; failures and nulls were rescued to absent before
		// this body could run.
		return Some(n.settledValue()), nil
	}
	return w
}

// optionalAny is the type-erased form of [Optional] used when wrapping
// dependencies bound to optional slots. Already-wrapped nodes pass through.
func optionalAny(n AnyNode) AnyNode {
	if n.IsOptionalNode() {
		return n
	}
	w := newNode[Option[any]]("~"+n.Name(), []dependency{{slot: "WRAPPED", node: n}})
	w.optionalWrap = true
	w.absentValue = func() any { return None[any]() }
	w.decider = n.deciderRef()
	w.evalFn = func(ctx context.Context) (Option[any], error) {
		v, _ := n.result()
		return Some(v), nil
	}
	return w
}

// absentSentinel is the single shared node bound to every optional slot
// left unbound at build time.
var absentSentinel = func() *Node[Option[any]] {
	n := newNode[Option[any]]("ABSENT", nil)
	n.optionalWrap = true
	n.absentValue = func() any { return None[any]() }
	n.started.Store(true)
	n.p.complete(None[any]())
	return n
}()

// Absent returns an optional-wrapped node that always settles as absent.
func Absent[T any]() *Node[Option[T]] {
	n := newNode[Option[T]]("ABSENT", nil)
	n.optionalWrap = true
	n.absentValue = func() any { return None[T]() }
	n.started.Store(true)
	n.p.complete(None[T]())
	return n
}
