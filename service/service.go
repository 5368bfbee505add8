// Package service adapts asynchronous request/response callables into
// graph nodes. The core treats any asynchronous callable uniformly; this
// package provides the conventional shape for remote calls: build the
// request from upstream node values, invoke the service off the evaluation
// goroutine, settle with its response.
package service

import (
	"context"

	"github.com/nodegraph/nodes"
)

// Service is an asynchronous request/response callable.
type Service[Req, Resp any] interface {
	Call(ctx context.Context, req Req) (Resp, error)
}

// Func adapts a plain function to the [Service] interface.
type Func[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Call invokes the function.
func (f Func[Req, Resp]) Call(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// Wrap creates a node calling svc with the request emitted by reqNode.
// The call runs concurrently with the rest of the graph and its response
// settles the node. A null request short-circuits to a null response
// without calling the service; a failed request node fails the call node
// with the same error.
func Wrap[Req, Resp any](name string, svc Service[Req, Resp], reqNode *nodes.Node[Req]) *nodes.Node[Resp] {
	call := nodes.FlatMap(reqNode, "Service["+name+"]",
		func(ctx context.Context, req Req) *nodes.Future[Resp] {
			p := nodes.NewPromise[Resp]()
			go func() {
				resp, err := svc.Call(ctx, req)
				if err != nil {
					p.Fail(err)
					return
				}
				p.Complete(resp)
			}()
			return p.Future()
		})
	return nodes.IfThenElse(reqNode.IsNotNull(), call, nodes.NoValue[Resp]())
}
