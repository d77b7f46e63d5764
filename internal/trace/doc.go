// Package trace provides leveled advisory tracing for the recheck pipeline.
//
// Trace output is diagnostic only: no component may change behavior based on
// whether tracing is enabled or what was emitted. The zero-cost default is
// the Nop tracer.
package trace
