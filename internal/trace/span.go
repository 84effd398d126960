package trace

import (
	"sync/atomic"
	"time"
)

var seq, spanIDs atomic.Uint64

// Span is one operation between Begin and End. Spans begun on a tracer that
// does not record their scope are inert.
type Span struct {
	t      Tracer
	ev     Event
	extras map[string]string
}

// Begin emits the begin event of a new span. parent is 0 for roots.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !records(t, scope) {
		return &Span{}
	}
	sp := &Span{t: t, ev: Event{
		Time:     time.Now(),
		Scope:    scope,
		SpanID:   spanIDs.Add(1),
		ParentID: parent,
		Name:     name,
	}}
	begin := sp.ev
	begin.Seq, begin.Kind = seq.Add(1), KindSpanBegin
	t.Emit(&begin)
	return sp
}

// End emits the end event and returns how long the span ran.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.t == nil {
		return 0
	}
	now := time.Now()
	end := s.ev
	end.Time, end.Seq, end.Kind = now, seq.Add(1), KindSpanEnd
	end.Detail, end.Extra = detail, s.extras
	s.t.Emit(&end)
	return now.Sub(s.ev.Time)
}

// WithExtra adds key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.t == nil {
		return s
	}
	if s.extras == nil {
		s.extras = map[string]string{}
	}
	s.extras[key] = value
	return s
}

// ID is 0 for inert spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.ev.SpanID
}
