package nodes

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Value creates a node with a fixed value. Its promise is settled on
// construction and the node is null-admissible, so Emit works without a
// prior Apply.
func Value[T any](v T, name ...string) *Node[T] {
	n := newNode[T](valueNodeName(any(v), name...), nil)
	n.nullable = true
	n.started.Store(true)
	n.p.complete(normalizeValue(any(v)))
	return n
}

func valueNodeName(v any, name ...string) string {
	if len(name) > 0 && name[0] != "" {
		return name[0]
	}
	return fmt.Sprintf("value[%s]", valueStringInName(v))
}

func valueStringInName(v any) string {
	if v == nil {
		return "null"
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return fmt.Sprintf("%v", v)
	}
	return fmt.Sprintf("%T", v)
}

var (
	nodeTrue  = Value(true, "trueNode")
	nodeFalse = Value(false, "falseNode")
)

// True returns the shared literal true node.
func True() *Node[bool] { return nodeTrue }

// False returns the shared literal false node.
func False() *Node[bool] { return nodeFalse }

// NoValue returns a node with a null value. For element types that can be
// nil, any node that requires this node fails with ErrRequiredInputMissing;
// for other types the value is the zero value, an ordinary success.
func NoValue[T any]() *Node[T] {
	var zero T
	return Value(zero, "nullNode")
}

// ValueFromSupplier creates a node whose value is computed by the supplier
// on first evaluation and cached thereafter. The supplier runs at most
// once, even under concurrent reads.
func ValueFromSupplier[T any](supplier func() T, name string) *Node[T] {
	var (
		once   sync.Once
		cached T
	)
	n := newNode[T](name, nil)
	n.nullable = true
	n.evalFn = func(ctx context.Context) (T, error) {
		once.Do(func() { cached = supplier() })
		return cached, nil
	}
	return n
}

// Fail creates a node that settles with the given error.
func Fail[T any](err error) *Node[T] {
	n := newNode[T]("failure", nil)
	n.evalFn = func(ctx context.Context) (T, error) {
		var zero T
		return zero, err
	}
	return n
}

// WrapFuture adapts an external asynchronous producer into a node. The
// node settles with whatever the future settles with; a null value is
// admissible.
func WrapFuture[T any](f *Future[T], name ...string) *Node[T] {
	nodeName := "wrappedFuture"
	if len(name) > 0 && name[0] != "" {
		nodeName = name[0]
	}
	n := newNode[T](nodeName, nil)
	n.nullable = true
	n.evalFn = func(ctx context.Context) (T, error) {
		return f.Get(ctx)
	}
	return n
}
