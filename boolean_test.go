package nodes

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

// recordingBool is a boolean node that records whether its body ran.
func recordingBool(value bool, ran *atomic.Bool) *Node[bool] {
	return ValueFromSupplier(func() bool {
		ran.Store(true)
		return value
	}, "recording")
}

func TestNot(t *testing.T) {
	assert.False(t, mustGet(t, Not(True())))
	assert.True(t, mustGet(t, Not(False())))

	boom := errors.New("boom")
	_, err := applyAndGet(t, Not(Fail[bool](boom)))
	assert.True(t, errors.Is(err, boom))
}

func TestEquals(t *testing.T) {
	assert.True(t, mustGet(t, Equals(Value(3), Value(3))))
	assert.False(t, mustGet(t, Equals(Value("a"), Value("b"))))
}

func TestAndLazyShortCircuit(t *testing.T) {
	t.Run("false stops the chain", func(t *testing.T) {
		var ran atomic.Bool
		n := AndLazy(False(), recordingBool(true, &ran))
		assert.False(t, mustGet(t, n))
		assert.False(t, ran.Load())
	})

	t.Run("true defers to the next operand", func(t *testing.T) {
		var ran atomic.Bool
		n := AndLazy(True(), recordingBool(true, &ran))
		assert.True(t, mustGet(t, n))
		assert.True(t, ran.Load())
	})

	t.Run("operand failure propagates", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := applyAndGet(t, AndLazy(True(), Fail[bool](boom)))
		assert.True(t, errors.Is(err, boom))
	})

	t.Run("result matches sequential evaluation", func(t *testing.T) {
		assert.True(t, mustGet(t, AndLazy(True(), True(), True())))
		assert.False(t, mustGet(t, AndLazy(True(), True(), False())))
	})
}

func TestAndEager(t *testing.T) {
	t.Run("all operands start", func(t *testing.T) {
		var a, b atomic.Bool
		n := And(recordingBool(false, &a), recordingBool(true, &b))
		assert.False(t, mustGet(t, n))

		// The second operand was kicked off even though the first already
		// decided the result.
		waitUntil(t, b.Load)
		assert.True(t, a.Load())
	})

	t.Run("short-circuits without waiting for later operands", func(t *testing.T) {
		pending := WrapFuture(NewPromise[bool]().Future(), "pending")
		n := And(False(), pending)
		assert.False(t, mustGet(t, n))
	})
}

func TestOrLazy(t *testing.T) {
	t.Run("true stops the chain", func(t *testing.T) {
		var ran atomic.Bool
		n := OrLazy(True(), recordingBool(false, &ran))
		assert.True(t, mustGet(t, n))
		assert.False(t, ran.Load())
	})

	t.Run("false defers to the next operand", func(t *testing.T) {
		assert.False(t, mustGet(t, OrLazy(False(), False())))
		assert.True(t, mustGet(t, OrLazy(False(), True())))
	})
}

func TestOrEagerRunsAllOperands(t *testing.T) {
	var a, b atomic.Bool
	n := Or(recordingBool(false, &a), recordingBool(false, &b))
	assert.False(t, mustGet(t, n))
	assert.True(t, a.Load())
	assert.True(t, b.Load())
}

func TestBooleanOperandCount(t *testing.T) {
	defer func() {
		assert.NotZero(t, recover())
	}()
	And(True())
}

func TestBooleanNames(t *testing.T) {
	n := And(True(), False())
	assert.Equal(t, "AND::(trueNode, falseNode)", n.Name())
	assert.Equal(t, "AND-lazy::(trueNode, falseNode)", AndLazy(True(), False()).Name())
	assert.Equal(t, "NOT::trueNode", Not(True()).Name())
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(testTimeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition never became true")
		}
		time.Sleep(time.Millisecond)
	}
}
