package nodes

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Slot identifies a named position in a node kind's dependency map.
type Slot string

// SlotSpec declares one slot of a node kind. Optional slots may be left
// unbound at build time and absorb failures of whatever is bound to them.
type SlotSpec struct {
	ID       Slot
	Optional bool
}

// Evaluator is a node kind: it declares the kind's slot set and computes
// the node's value once all required inputs are available.
//
// Slots may return nil, in which case the kind uses the default set of 16
// anonymous slots (Dep(0) through Dep(15)), all required, bound in order.
// The slot set of a kind must be static: it is discovered once per kind
// type and cached process-wide.
type Evaluator[T any] interface {
	Slots() []SlotSpec
	Evaluate(ctx context.Context, in Inputs) (T, error)
}

// NullableKind is implemented by kinds whose Evaluate may legitimately
// produce a null value.
type NullableKind interface {
	CanEmitNull() bool
}

// NamedKind overrides the default display name of a kind (its Go type
// name).
type NamedKind interface {
	KindName() string
}

// defaultSlots is the anonymous slot set used by kinds without declared
// slots and by the positional combinators.
var defaultSlots = [16]Slot{
	"DEP0", "DEP1", "DEP2", "DEP3", "DEP4", "DEP5", "DEP6", "DEP7",
	"DEP8", "DEP9", "DEP10", "DEP11", "DEP12", "DEP13", "DEP14", "DEP15",
}

// Dep returns the i-th anonymous slot. Panics if i is outside the default
// slot set.
func Dep(i int) Slot {
	return defaultSlots[i]
}

// Inputs is the evaluation-time view of a node's bound slots, passed to
// [Evaluator.Evaluate]. Accessors panic on slots the kind never declared;
// such a panic is recovered by the engine and fails the node.
type Inputs struct {
	deps []dependency
}

func (in Inputs) find(slot Slot) dependency {
	for _, d := range in.deps {
		if d.slot == slot {
			return d
		}
	}
	panic(fmt.Sprintf("nodes: no input bound to slot %q", slot))
}

// Node returns the node bound to slot.
func (in Inputs) Node(slot Slot) AnyNode {
	return in.find(slot).node
}

// Raw returns the emitted value of the slot as settled, with presence
// wrappers intact.
func (in Inputs) Raw(slot Slot) any {
	v, _ := in.find(slot).node.result()
	return v
}

// Value returns the emitted value of the slot with presence wrappers
// stripped: an absent optional input yields nil.
func (in Inputs) Value(slot Slot) any {
	v := in.Raw(slot)
	if p, ok := v.(presence); ok {
		return p.anyValue()
	}
	return v
}

// Input returns the typed value of a slot. A null or absent input yields
// the zero value.
func Input[V any](in Inputs, slot Slot) V {
	return typedValue[V](in.Value(slot))
}

// InputOr returns the typed value of a slot, or def when the input is null
// or absent.
func InputOr[V any](in Inputs, slot Slot, def V) V {
	v := in.Value(slot)
	if v == nil {
		return def
	}
	return v.(V)
}

// OptionalInput returns the typed value of a slot and whether it was
// present.
func OptionalInput[V any](in Inputs, slot Slot) (V, bool) {
	v := in.Value(slot)
	if v == nil {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// optionalSlotCache remembers the optional slot set per kind type. Entries
// are written once and read many times; lookups are monotonic.
var optionalSlotCache sync.Map // reflect.Type -> map[Slot]bool

func optionalSlotsOf(kind any, specs []SlotSpec) map[Slot]bool {
	key := reflect.TypeOf(kind)
	if cached, ok := optionalSlotCache.Load(key); ok {
		return cached.(map[Slot]bool)
	}
	set := make(map[Slot]bool, len(specs))
	for _, s := range specs {
		if s.Optional {
			set[s.ID] = true
		}
	}
	actual, _ := optionalSlotCache.LoadOrStore(key, set)
	return actual.(map[Slot]bool)
}

func kindName(kind any) string {
	if nk, ok := kind.(NamedKind); ok {
		return nk.KindName()
	}
	t := reflect.TypeOf(kind)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
