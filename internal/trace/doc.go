// Package trace records what hl7play is doing: command boundaries, driver
// phases, requests to the remote validator and per-document work.
//
// # Usage
//
//	hl7play validate --trace=- --trace-level=detail
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans events out to several tracers
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "lex", 0)
//	defer span.End("")
package trace
