package nodes

import (
	"errors"
	"strconv"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCollect(t *testing.T) {
	t.Run("preserves order", func(t *testing.T) {
		n := Collect([]*Node[int]{Value(1), Value(2), Value(3)})
		assert.Equal(t, []int{1, 2, 3}, mustGet(t, n))
	})

	t.Run("element failure propagates", func(t *testing.T) {
		boom := errors.New("boom")
		n := Collect([]*Node[int]{Value(1), Fail[int](boom)})
		_, err := applyAndGet(t, n)
		assert.True(t, errors.Is(err, boom))
	})

	t.Run("empty list", func(t *testing.T) {
		n := Collect([]*Node[int]{})
		assert.Equal(t, []int{}, mustGet(t, n))
	})
}

func TestCollectMap(t *testing.T) {
	t.Run("keeps keys", func(t *testing.T) {
		n := CollectMap(map[string]*Node[int]{
			"a": Value(1),
			"b": Value(2),
		})
		assert.Equal(t, map[string]int{"a": 1, "b": 2}, mustGet(t, n))
	})

	t.Run("entry failure propagates", func(t *testing.T) {
		boom := errors.New("boom")
		n := CollectMap(map[string]*Node[int]{
			"a": Value(1),
			"b": Fail[int](boom),
		})
		_, err := applyAndGet(t, n)
		assert.True(t, errors.Is(err, boom))
	})
}

func TestSplitAndCollect(t *testing.T) {
	t.Run("transforms every element in order", func(t *testing.T) {
		list := Value([]int{1, 2, 3})
		n := SplitAndCollect(list, "itoa", func(v int) *Node[string] {
			return Map(Value(v), "format", func(i int) string { return strconv.Itoa(i * 10) })
		})
		assert.Equal(t, []string{"10", "20", "30"}, mustGet(t, n))
	})

	t.Run("list failure yields null", func(t *testing.T) {
		list := Fail[[]int](errors.New("boom"))
		n := SplitAndCollect(list, "itoa", func(v int) *Node[string] {
			return Value(strconv.Itoa(v))
		})
		v, err := applyAndGet(t, n)
		assert.NoError(t, err)
		assert.Zero(t, v)
	})

	t.Run("element failure propagates", func(t *testing.T) {
		boom := errors.New("boom")
		list := Value([]int{1, 2})
		n := SplitAndCollect(list, "maybe", func(v int) *Node[string] {
			if v == 2 {
				return Fail[string](boom)
			}
			return Value(strconv.Itoa(v))
		})
		_, err := applyAndGet(t, n)
		assert.True(t, errors.Is(err, boom))
	})
}
