// Package trace records what the meta pipeline is doing.
//
// The driver opens one span per run (ScopeDriver), one per phase
// (ScopePass: load, parse, resolve, layout, emit, write) and one per input
// file (ScopeFile). Tracing is off by default; a span begun on a tracer that
// does not record its scope is inert and costs one allocation.
//
// A StreamTracer writes events as they happen. A RingTracer keeps the newest
// ones in memory, and the CLI dumps them only when a run fails.
//
//	tr, _ := trace.New(trace.Config{Level: trace.LevelPhase})
//	ctx := trace.WithTracer(context.Background(), tr)
//	sp := trace.Begin(tr, trace.ScopePass, "parse", trace.CurrentSpan(ctx))
//	defer sp.End("")
package trace
