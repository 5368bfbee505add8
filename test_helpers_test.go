package nodes

import (
	"context"
	"testing"
	"time"
)

const testTimeout = 5 * time.Second

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)
	return ctx
}

// applyAndGet runs a node to completion and returns its result.
func applyAndGet[T any](t *testing.T, n *Node[T]) (T, error) {
	t.Helper()
	ctx := testContext(t)
	return n.Apply(ctx).Get(ctx)
}

// mustGet runs a node to completion, failing the test on error.
func mustGet[T any](t *testing.T, n *Node[T]) T {
	t.Helper()
	v, err := applyAndGet(t, n)
	if err != nil {
		t.Fatalf("node [%s] failed: %v", n.Name(), err)
	}
	return v
}

// settle applies a node, waits for it to settle, and ignores the outcome.
func settle[T any](t *testing.T, n *Node[T]) {
	t.Helper()
	_, _ = applyAndGet(t, n)
}
