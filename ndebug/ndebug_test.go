package ndebug

import (
	"context"
	"sync"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLevelGating(t *testing.T) {
	b := NewBuilder(LevelDetailed)
	b.Basicf("basic %d", 1)
	b.Detailedf("detailed")
	b.Verbosef("verbose, should be dropped")

	out := b.String()
	assert.Contains(t, out, "basic 1")
	assert.Contains(t, out, "detailed")
	assert.NotContains(t, out, "verbose")
}

func TestNilBuilderIsSafe(t *testing.T) {
	var b *Builder
	b.Basicf("nothing")
	assert.Equal(t, "", b.String())
	assert.Equal(t, LevelNone, b.Level())
	assert.False(t, b.Enabled(LevelBasic))
}

func TestContextRoundTrip(t *testing.T) {
	b := NewBuilder(LevelVerbose)
	ctx := NewContext(context.Background(), b)
	assert.Equal(t, b, FromContext(ctx))
	assert.Zero(t, FromContext(context.Background()))
}

func TestConcurrentRecording(t *testing.T) {
	b := NewBuilder(LevelBasic)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Basicf("line %d", i)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 16, countLines(b.String()))
}

func TestReset(t *testing.T) {
	b := NewBuilder(LevelBasic)
	b.Basicf("gone")
	b.Reset()
	assert.Equal(t, "", b.String())
}

func countLines(s string) int {
	n := 0
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}
