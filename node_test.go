package nodes

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

// countingKind counts how many times its body ran.
type countingKind struct {
	runs  atomic.Int32
	value int
}

func (k *countingKind) Slots() []SlotSpec { return []SlotSpec{{ID: "IN"}} }

func (k *countingKind) Evaluate(ctx context.Context, in Inputs) (int, error) {
	k.runs.Add(1)
	return k.value + Input[int](in, "IN"), nil
}

func TestApplyAtMostOnce(t *testing.T) {
	kind := &countingKind{value: 100}
	n := NewBuilder[int](kind).DependsOn("IN", Value(1)).MustBuild()

	ctx := testContext(t)
	var wg sync.WaitGroup
	results := make([]int, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = n.Apply(ctx).MustGet(ctx)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), kind.runs.Load())
	for _, r := range results {
		assert.Equal(t, 101, r)
	}
}

func TestPromiseStability(t *testing.T) {
	n := Map(Value(2), "double", func(v int) int { return v * 2 })
	assert.Equal(t, 4, mustGet(t, n))

	// Every later observation sees the same settlement.
	for i := 0; i < 3; i++ {
		v, err := n.Emit()
		assert.NoError(t, err)
		assert.Equal(t, 4, v)
		assert.Equal(t, 4, mustGet(t, n))
	}
}

func TestRequiredFailurePropagation(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	n := Map(Fail[int](boom), "after", func(v int) int { ran = true; return v })

	_, err := applyAndGet(t, n)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, ran)
}

func TestRequiredNullInput(t *testing.T) {
	ran := false
	n := Map(NoValue[*int](), "after", func(v *int) string { ran = true; return "x" })

	_, err := applyAndGet(t, n)
	assert.True(t, errors.Is(err, ErrRequiredInputMissing))
	assert.False(t, ran)
}

// nullableResult is a kind producing a null pointer.
type nullableResult struct{ allowNull bool }

func (k nullableResult) Slots() []SlotSpec { return []SlotSpec{{ID: "IN"}} }

func (k nullableResult) Evaluate(ctx context.Context, in Inputs) (*int, error) {
	return nil, nil
}

func (k nullableResult) CanEmitNull() bool { return k.allowNull }

func TestNullResult(t *testing.T) {
	t.Run("non-nullable node fails", func(t *testing.T) {
		n := NewBuilder[*int](nullableResult{allowNull: false}).DependsOn("IN", Value(1)).MustBuild()
		_, err := applyAndGet(t, n)
		assert.True(t, errors.Is(err, ErrNullResult))
	})

	t.Run("nullable node succeeds with null", func(t *testing.T) {
		n := NewBuilder[*int](nullableResult{allowNull: true}).DependsOn("IN", Value(1)).MustBuild()
		v, err := applyAndGet(t, n)
		assert.NoError(t, err)
		assert.Zero(t, v)
	})
}

func TestDeciderGating(t *testing.T) {
	t.Run("nullable node settles null", func(t *testing.T) {
		ran := false
		n := MapWithDecider(Value(1), DeciderAlwaysFalse, "gated", func(v int) *int {
			ran = true
			return &v
		})
		v, err := applyAndGet(t, n)
		assert.NoError(t, err)
		assert.Zero(t, v)
		assert.False(t, ran)
	})

	t.Run("optional-wrapped node settles absent", func(t *testing.T) {
		inner := Map(Value(1), "id", func(v int) int { return v })
		inner.decider = DeciderAlwaysFalse
		opt := Optional(inner)
		v := mustGet(t, opt)
		assert.False(t, v.IsPresent())
	})

	t.Run("plain node fails with decider key", func(t *testing.T) {
		kind := &countingKind{}
		n := NewBuilder[int](kind).
			DependsOn("IN", Value(1)).
			WithDecider(NewDeciderSupplier("my_feature", func() bool { return false })).
			MustBuild()
		_, err := applyAndGet(t, n)
		assert.True(t, errors.Is(err, ErrDeciderOff))
		assert.Contains(t, err.Error(), "my_feature")
		assert.Equal(t, int32(0), kind.runs.Load())
	})
}

func TestSinksFireAfterSettlement(t *testing.T) {
	newRecordingSink := func(fired chan<- string, tag string) AnyNode {
		return ValueFromSupplier(func() string {
			fired <- tag
			return tag
		}, "sink_"+tag)
	}

	t.Run("after success", func(t *testing.T) {
		fired := make(chan string, 1)
		n := Map(Value(1), "ok", func(v int) int { return v })
		n.SetSinks(newRecordingSink(fired, "success"))

		assert.Equal(t, 1, mustGet(t, n))
		select {
		case tag := <-fired:
			assert.Equal(t, "success", tag)
		case <-time.After(testTimeout):
			t.Fatal("sink never fired")
		}
	})

	t.Run("after failure", func(t *testing.T) {
		fired := make(chan string, 1)
		n := Map(Fail[int](errors.New("boom")), "doomed", func(v int) int { return v })
		n.SetSinks(newRecordingSink(fired, "failure"))

		_, err := applyAndGet(t, n)
		assert.Error(t, err)
		select {
		case tag := <-fired:
			assert.Equal(t, "failure", tag)
		case <-time.After(testTimeout):
			t.Fatal("sink never fired")
		}
	})

	t.Run("sink failure does not reach producer", func(t *testing.T) {
		n := Map(Value(7), "fine", func(v int) int { return v })
		n.SetSinks(Fail[int](errors.New("sink boom")))
		assert.Equal(t, 7, mustGet(t, n))
	})
}

func TestEmitErrors(t *testing.T) {
	t.Run("pending", func(t *testing.T) {
		n := Map(Value(1), "unapplied", func(v int) int { return v })
		_, err := n.Emit()
		assert.True(t, errors.Is(err, ErrNotSettled))
	})

	t.Run("failed", func(t *testing.T) {
		boom := errors.New("boom")
		n := Fail[int](boom)
		settle(t, n)
		_, err := n.Emit()
		assert.True(t, errors.Is(err, ErrEmitOnFailed))
		assert.True(t, errors.Is(err, boom))
	})

	t.Run("value node emits without apply", func(t *testing.T) {
		v, err := Value(42).Emit()
		assert.NoError(t, err)
		assert.Equal(t, 42, v)
	})
}

func TestEvaluatePanicIsWrapped(t *testing.T) {
	n := Map(Value(1), "explode", func(v int) int { panic("kaboom") })
	_, err := applyAndGet(t, n)
	assert.True(t, errors.Is(err, ErrEvaluatePanic))
	assert.Contains(t, err.Error(), "explode")
}

func TestToFutureSafe(t *testing.T) {
	ctx := testContext(t)

	t.Run("success passes through", func(t *testing.T) {
		v, err := Value(5).ToFutureSafe(ctx).Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 5, v)
	})

	t.Run("failure becomes zero", func(t *testing.T) {
		v, err := Fail[int](errors.New("boom")).ToFutureSafe(ctx).Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 0, v)
	})
}

func TestWaitOn(t *testing.T) {
	t.Run("waits for extras and keeps the target value", func(t *testing.T) {
		var mu sync.Mutex
		var log []string
		mark := func(tag string) *Node[string] {
			return ValueFromSupplier(func() string {
				mu.Lock()
				defer mu.Unlock()
				log = append(log, tag)
				return tag
			}, "mark_"+tag)
		}

		target := Map(Value(999), "appendTarget", func(v int) int {
			mu.Lock()
			defer mu.Unlock()
			log = append(log, "target")
			return v
		})
		waited := target.WaitOn(mark("m1"), mark("m2"), mark("m3"))

		assert.Equal(t, 999, mustGet(t, waited))
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 4, len(log))
	})

	t.Run("extra failures do not propagate", func(t *testing.T) {
		waited := Value(1).WaitOn(Fail[int](errors.New("boom")))
		assert.Equal(t, 1, mustGet(t, waited))
	})
}

func TestFutureGetHonorsContext(t *testing.T) {
	blocked := WrapFuture(NewPromise[int]().Future(), "never")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := blocked.Apply(ctx).Get(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNodeNameAndKey(t *testing.T) {
	n := Map(Value(1), "renamed", func(v int) int { return v })
	assert.Equal(t, "renamed", n.Name())
	n.SetKey("instance-7")
	assert.Equal(t, "renamed:instance-7", n.Name())
	assert.Equal(t, "instance-7", n.Key())
}
