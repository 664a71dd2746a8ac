// Package trace is the logging and tracing layer of keystroke.
//
// Every prefix analysis is a span; the phases inside it (compile, semantic
// models, diagnostics) are nested spans, and point events carry log-style
// messages. Tracing is off by default and costs a nil check when disabled.
//
// # Usage
//
//	keystroke scan --trace=- --trace-level=detail snippet.go
//
// # Tracers
//
//   - Nop: no-op tracer when disabled
//   - StreamTracer: immediate write to a file or stderr (text or NDJSON)
//   - RingTracer: circular buffer dumped when the process panics
//   - MultiTracer: fan-out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: ring buffer only, dumped on crashes
//   - LevelPhase: driver and per-prefix spans
//   - LevelDetail: frontend passes inside a prefix
//   - LevelDebug: everything
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePrefix, "prefix", parentID)
//	defer span.End("")
package trace
