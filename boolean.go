package nodes

import (
	"context"
	"fmt"
	"strings"
)

// Not returns a node negating a boolean node. A failure of the child
// propagates.
func Not(n *Node[bool]) *Node[bool] {
	out := newNode[bool]("NOT::"+n.Name(), []dependency{{slot: "SOURCE", node: n, optional: n.IsOptionalNode()}})
	out.evalFn = func(ctx context.Context) (bool, error) {
		return !n.settledValue(), nil
	}
	return out
}

// Equals returns a node reporting whether two nodes emitted equal values.
func Equals[T comparable](a, b *Node[T]) *Node[bool] {
	out := newNode[bool]("Equals", listDeps(a, b))
	out.evalFn = func(ctx context.Context) (bool, error) {
		return a.settledValue() == b.settledValue(), nil
	}
	return out
}

// And creates an eagerly evaluated conjunction: every operand is started
// as soon as the node is applied, and the conjunction is evaluated left to
// right as operands settle. The reported result short-circuits on the
// first false; operands already running are not cancelled. Requires at
// least two operands.
func And(operands ...*Node[bool]) *Node[bool] {
	return booleanOp("AND", false, false, operands)
}

// AndLazy creates a lazily evaluated conjunction: only the first operand
// is started as a dependency, and each subsequent operand is started only
// while the running conjunction is still true. Requires at least two
// operands.
func AndLazy(operands ...*Node[bool]) *Node[bool] {
	return booleanOp("AND-lazy", true, false, operands)
}

// Or creates an eagerly evaluated disjunction, symmetric to [And] with
// short-circuit on the first true.
func Or(operands ...*Node[bool]) *Node[bool] {
	return booleanOp("OR", false, true, operands)
}

// OrLazy creates a lazily evaluated disjunction, symmetric to [AndLazy].
func OrLazy(operands ...*Node[bool]) *Node[bool] {
	return booleanOp("OR-lazy", true, true, operands)
}

// booleanOp builds a boolean combinator node. stop is the operand value
// that short-circuits the evaluation (false for AND, true for OR); the
// reported result matches sequential left-to-right logical evaluation
// regardless of how operands execute.
func booleanOp(kind string, lazy bool, stop bool, operands []*Node[bool]) *Node[bool] {
	if len(operands) < 2 {
		panic(fmt.Sprintf("nodes: %s requires at least 2 operands", kind))
	}

	names := make([]string, 0, len(operands))
	for _, op := range operands {
		names = append(names, op.Name())
	}
	name := kind + "::(" + strings.Join(names, ", ") + ")"

	var deps []dependency
	if lazy {
		// Lazy mode declares only the first operand; the rest are started
		// one by one from the body.
		deps = []dependency{{slot: defaultSlots[0], node: operands[0], optional: operands[0].IsOptionalNode()}}
	} else {
		deps = make([]dependency, 0, len(operands))
		for i, op := range operands {
			deps = append(deps, dependency{slot: Slot(fmt.Sprintf("OP%d", i)), node: op, optional: op.IsOptionalNode()})
		}
	}

	n := newNode[bool](name, deps)
	if !lazy {
		// Eager mode kicks off every operand but gates the body only on
		// the first one, so the result can short-circuit while later
		// operands are still running.
		first := operands[0]
		n.joinFn = func(ctx context.Context) error {
			for _, op := range operands {
				op.start(ctx)
			}
			<-first.done()
			_, err := first.result()
			return err
		}
	}
	n.extraInputs = func() map[string]AnyNode {
		out := make(map[string]AnyNode, len(operands))
		for i, op := range operands {
			out[fmt.Sprintf("OP%d", i)] = op
		}
		return out
	}
	n.evalFn = func(ctx context.Context) (bool, error) {
		// Applying a node is idempotent; in eager mode this just waits on
		// futures already in flight, in lazy mode it starts each operand
		// in turn.
		for _, op := range operands {
			v, err := op.Apply(ctx).Get(ctx)
			if err != nil {
				return false, err
			}
			if v == stop {
				return stop, nil
			}
		}
		return !stop, nil
	}
	return n
}
