// Package ndebug collects per-evaluation debug messages.
//
// A [Builder] is carried in the context passed to a root node's Apply and
// flows through the whole evaluation; every node reports lifecycle events
// into it at the level it was created with. Without a builder in the
// context, reporting is a no-op, so production evaluations pay almost
// nothing.
//
//	dbg := ndebug.NewBuilder(ndebug.LevelDetailed)
//	ctx := ndebug.NewContext(ctx, dbg)
//	resp, err := root.Apply(ctx).Get(ctx)
//	fmt.Print(dbg.String())
package ndebug

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Level controls how much detail an evaluation reports.
type Level int

const (
	LevelNone Level = iota
	LevelBasic
	LevelDetailed
	LevelVerbose
	LevelVerbose2
	LevelVerbose3
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelBasic:
		return "basic"
	case LevelDetailed:
		return "detailed"
	case LevelVerbose:
		return "verbose"
	case LevelVerbose2:
		return "verbose2"
	case LevelVerbose3:
		return "verbose3"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Builder accumulates debug messages for one evaluation. All methods are
// safe for concurrent use and safe on a nil receiver, which reports
// nothing.
type Builder struct {
	level Level

	mu sync.Mutex
	sb strings.Builder
}

// NewBuilder creates a builder reporting at the given level.
func NewBuilder(level Level) *Builder {
	return &Builder{level: level}
}

// Level returns the reporting level, LevelNone for a nil builder.
func (b *Builder) Level() Level {
	if b == nil {
		return LevelNone
	}
	return b.level
}

// Enabled reports whether messages at level l are recorded.
func (b *Builder) Enabled(l Level) bool {
	return b != nil && l != LevelNone && b.level >= l
}

func (b *Builder) record(l Level, format string, args ...any) {
	if !b.Enabled(l) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(&b.sb, format, args...)
	b.sb.WriteByte('\n')
}

// Basicf records a message at LevelBasic.
func (b *Builder) Basicf(format string, args ...any) { b.record(LevelBasic, format, args...) }

// Detailedf records a message at LevelDetailed.
func (b *Builder) Detailedf(format string, args ...any) { b.record(LevelDetailed, format, args...) }

// Verbosef records a message at LevelVerbose.
func (b *Builder) Verbosef(format string, args ...any) { b.record(LevelVerbose, format, args...) }

// Verbose2f records a message at LevelVerbose2.
func (b *Builder) Verbose2f(format string, args ...any) { b.record(LevelVerbose2, format, args...) }

// Verbose3f records a message at LevelVerbose3.
func (b *Builder) Verbose3f(format string, args ...any) { b.record(LevelVerbose3, format, args...) }

// String returns everything recorded so far.
func (b *Builder) String() string {
	if b == nil {
		return ""
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

// Reset discards everything recorded so far.
func (b *Builder) Reset() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sb.Reset()
}

type ctxKey struct{}

// NewContext returns a context carrying the builder.
func NewContext(ctx context.Context, b *Builder) context.Context {
	return context.WithValue(ctx, ctxKey{}, b)
}

// FromContext returns the builder carried by ctx, or nil when there is
// none. The nil builder is safe to use and reports nothing.
func FromContext(ctx context.Context) *Builder {
	b, _ := ctx.Value(ctxKey{}).(*Builder)
	return b
}
