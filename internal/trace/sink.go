package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Config describes the tracer built by New.
type Config struct {
	Level    Level
	Ring     bool // keep events in memory; implied by LevelError
	RingSize int  // 0 means 1024
	Format   Format
	Output   io.Writer // wins over Path
	Path     string    // "" or "-" is stderr; *.ndjson forces FormatNDJSON
}

// New builds the tracer cfg describes, Nop at LevelOff.
func New(cfg Config) (Tracer, error) {
	switch {
	case cfg.Level == LevelOff:
		return Nop, nil
	case cfg.Ring || cfg.Level == LevelError:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	}
	if strings.HasSuffix(cfg.Path, ".ndjson") {
		cfg.Format = FormatNDJSON
	}
	st := NewStreamTracer(cfg.Output, cfg.Level, cfg.Format)
	if cfg.Output == nil {
		st.w = os.Stderr
		if cfg.Path != "" && cfg.Path != "-" {
			f, err := os.Create(cfg.Path)
			if err != nil {
				return nil, fmt.Errorf("failed to open trace output: %w", err)
			}
			st.w, st.closer = f, f
		}
	}
	return st, nil
}

// StreamTracer writes every recorded event as it arrives.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer // set only for files New opened
	level  Level
	format Format
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.covers(ev.Scope) {
		return
	}
	line := FormatEvent(ev, t.format)
	t.mu.Lock()
	// трассировка не должна ронять генерацию
	_, _ = t.w.Write(line)
	t.mu.Unlock()
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Close() error {
	if t.closer == nil {
		return nil
	}
	return t.closer.Close()
}

// RingTracer keeps the newest events in memory until Dump.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	total int
	level Level
}

func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = 1024
	}
	return &RingTracer{buf: make([]Event, size), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.covers(ev.Scope) {
		return
	}
	t.mu.Lock()
	t.buf[t.total%len(t.buf)] = *ev
	t.total++
	t.mu.Unlock()
}

func (t *RingTracer) Level() Level { return t.level }
func (t *RingTracer) Close() error { return nil }

// Snapshot copies the retained events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.total <= len(t.buf) {
		return append([]Event(nil), t.buf[:t.total]...)
	}
	head := t.total % len(t.buf)
	out := make([]Event, 0, len(t.buf))
	out = append(out, t.buf[head:]...)
	return append(out, t.buf[:head]...)
}

// Dump writes the retained events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}
