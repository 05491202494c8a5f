// Package minitrace is the runtime instrumented functions call into.
//
// A Span counts the time a computation is actually running. Synchronous
// functions hold it with Enter/Exit. Context-aware functions attach it to their
// context with Instrument and mark blocking points with Suspend, Await or
// Sleep, so time spent waiting is not counted. Suspensions of one context may
// overlap, the span stays paused until the last of them is resumed. Functions returning a Future
// get it through Box: the span starts when the future is awaited, not when the
// function returns.
//
// Finished spans are exported as OpenTelemetry spans named
// "minitrace/<category>" through the provider set with SetTracerProvider.
// Spans of context-aware calls and futures are children of the span found in
// the context. Spans of synchronous calls are roots.
package minitrace
