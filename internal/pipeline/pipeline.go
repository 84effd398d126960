// Package pipeline carries progress events from the meta driver to whoever
// renders them.
package pipeline

import "time"

// Stage is one phase of a meta run. Load and parse are reported per file;
// the rest run once over the whole table and are reported with File == "".
type Stage string

const (
	StageLoad    Stage = "load"
	StageParse   Stage = "parse"
	StageResolve Stage = "resolve"
	StageLayout  Stage = "layout"
	StageEmit    Stage = "emit"
	StageWrite   Stage = "write"
)

// Stages lists the stages in execution order.
var Stages = []Stage{StageLoad, StageParse, StageResolve, StageLayout, StageEmit, StageWrite}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file, or for the whole run when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// FuncSink adapts a function to ProgressSink.
type FuncSink func(Event)

func (f FuncSink) OnEvent(evt Event) { f(evt) }

// Emit sends evt to sink when there is one.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// Queued reports every file as waiting.
func Queued(sink ProgressSink, files []string) {
	for _, f := range files {
		Emit(sink, Event{File: f, Stage: StageLoad, Status: StatusQueued})
	}
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

// Add accumulates dur into stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] += dur
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Total returns the sum over all stages.
func (t Timings) Total() time.Duration {
	var total time.Duration
	for _, d := range t.stages {
		total += d
	}
	return total
}
