package trace

import (
	"context"
	"fmt"
	"strings"
)

// Tracer receives events. Implementations are goroutine-safe: with --ui the
// pipeline runs beside the progress program.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	Close() error
}

// Level is how much gets recorded.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // ring only, dumped on failure
	LevelPhase        // driver and pass boundaries
	LevelDetail       // plus one span per file
	LevelDebug        // everything
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a --trace-level value; "" means off.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil // #nosec G115 -- len(levelNames) fits uint8
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// covers reports whether events of scope are recorded at l. The error level
// keeps pass events so a failed run has something to dump.
func (l Level) covers(scope Scope) bool {
	switch l {
	case LevelOff:
		return false
	case LevelError, LevelPhase:
		return scope <= ScopePass
	case LevelDetail:
		return scope <= ScopeFile
	}
	return true
}

func records(t Tracer, scope Scope) bool {
	return t != nil && t.Level().covers(scope)
}

type nop struct{}

func (nop) Emit(*Event)  {}
func (nop) Level() Level { return LevelOff }
func (nop) Close() error { return nil }

// Nop drops every event.
var Nop Tracer = nop{}

type (
	tracerKey struct{}
	spanKey   struct{}
)

// WithTracer attaches t to ctx; nil attaches Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer of ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithSpan makes sp the parent of spans begun under the returned context.
func WithSpan(ctx context.Context, sp *Span) context.Context {
	return context.WithValue(ctx, spanKey{}, sp.ID())
}

// CurrentSpan returns the span ID carried by ctx, 0 for none.
func CurrentSpan(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}
