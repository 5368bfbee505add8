package nodes

import (
	"context"
	"fmt"
)

// IfThenElse returns a node that evaluates the condition and then applies
// exactly one branch; the unchosen branch is never started. A failure of
// the condition propagates. Only the condition is a join dependency, so
// neither branch runs before the condition settles.
func IfThenElse[T any](cond *Node[bool], trueNode, falseNode *Node[T]) *Node[T] {
	name := fmt.Sprintf("IF::%s(%s, %s)", cond.Name(), trueNode.Name(), falseNode.Name())
	n := newNode[T](name, []dependency{{slot: "CONDITION", node: cond, optional: cond.IsOptionalNode()}})
	if trueNode.CanEmitNull() || falseNode.CanEmitNull() {
		n.nullable = true
	}
	n.extraInputs = func() map[string]AnyNode {
		return map[string]AnyNode{
			"condition": cond,
			"TRUE":      trueNode,
			"FALSE":     falseNode,
		}
	}
	n.evalFn = func(ctx context.Context) (T, error) {
		branch := falseNode
		if cond.settledValue() {
			branch = trueNode
		}
		return branch.Apply(ctx).Get(ctx)
	}
	return n
}

// IfThen is [IfThenElse] with a null false branch.
func IfThen[T any](cond *Node[bool], trueNode *Node[T]) *Node[T] {
	return IfThenElse(cond, trueNode, NoValue[T]())
}

// IfSuccessful returns a boolean node reporting whether the given node
// settled with a non-null success. The input is observed through its
// presence-wrapped form, so failures are absorbed into false rather than
// propagating.
func IfSuccessful[T any](n *Node[T]) *Node[bool] {
	w := Optional(n)
	s := newNode[bool]("SUCCESS::"+n.Name(), []dependency{{slot: "WRAPPED", node: w, optional: true}})
	s.evalFn = func(ctx context.Context) (bool, error) {
		return w.settledValue().IsPresent(), nil
	}
	return s
}

// ifSuccessfulAny is the type-erased form of [IfSuccessful] backing
// [Node.WhenSuccess].
func ifSuccessfulAny(n AnyNode) *Node[bool] {
	w := optionalAny(n)
	s := newNode[bool]("SUCCESS::"+n.Name(), []dependency{{slot: "WRAPPED", node: w, optional: true}})
	s.evalFn = func(ctx context.Context) (bool, error) {
		v, _ := w.result()
		p, ok := v.(presence)
		return ok && p.isPresent(), nil
	}
	return s
}

// IfSuccessThenElse applies trueNode if the test node succeeded with a
// non-null value, falseNode otherwise.
func IfSuccessThenElse[S, T any](test *Node[S], trueNode, falseNode *Node[T]) *Node[T] {
	return IfThenElse(IfSuccessful(test), trueNode, falseNode)
}

// IfSuccessThen applies trueNode if the test node succeeded with a
// non-null value; the result is null otherwise.
func IfSuccessThen[S, T any](test *Node[S], trueNode *Node[T]) *Node[T] {
	return IfThen(IfSuccessful(test), trueNode)
}

// When returns the value of this node if the condition evaluates true, a
// null value otherwise.
func (n *Node[T]) When(cond *Node[bool]) *Node[T] {
	return IfThen(cond, n)
}

// Unless returns the value of this node if the condition evaluates false,
// a null value otherwise.
func (n *Node[T]) Unless(cond *Node[bool]) *Node[T] {
	return IfThen(Not(cond), n)
}

// WhenSuccess returns the value of this node if the test node succeeded
// with a non-null value, a null value otherwise.
func (n *Node[T]) WhenSuccess(test AnyNode) *Node[T] {
	return IfThen(ifSuccessfulAny(test), n)
}

// OrElse returns this node's value if it succeeds with a non-null value,
// the other node's value otherwise.
func (n *Node[T]) OrElse(other *Node[T]) *Node[T] {
	return IfThenElse(ifSuccessfulAny(n), n, other)
}

// LightDarkSwitch returns a node that always applies both branches but
// returns only the one selected by the condition: the dark branch when
// true, the light branch when false. Both branches' settlements are
// awaited before this node settles; errors of the unselected branch are
// ignored. A nil branch stands for a null value.
func LightDarkSwitch[T any](cond *Node[bool], darkNode, lightNode *Node[T]) *Node[T] {
	if darkNode == nil {
		darkNode = NoValue[T]()
	}
	if lightNode == nil {
		lightNode = NoValue[T]()
	}
	name := fmt.Sprintf("LIGHTDARK::%s(%s, %s)", cond.Name(), darkNode.Name(), lightNode.Name())
	n := newNode[T](name, []dependency{{slot: "CONDITION", node: cond, optional: cond.IsOptionalNode()}})
	if darkNode.CanEmitNull() || lightNode.CanEmitNull() {
		n.nullable = true
	}
	n.extraInputs = func() map[string]AnyNode {
		return map[string]AnyNode{
			"condition": cond,
			"TRUE":      darkNode,
			"FALSE":     lightNode,
		}
	}
	n.evalFn = func(ctx context.Context) (T, error) {
		darkFut := darkNode.Apply(ctx)
		lightFut := lightNode.Apply(ctx)
		<-darkFut.Done()
		<-lightFut.Done()
		if cond.settledValue() {
			return darkFut.Get(ctx)
		}
		return lightFut.Get(ctx)
	}
	return n
}

// DarkRead applies the response node unconditionally but only returns its
// value when the condition is false; when true the result is null.
func DarkRead[T any](cond *Node[bool], responseNode *Node[T]) *Node[T] {
	return LightDarkSwitch(cond, nil, responseNode)
}
