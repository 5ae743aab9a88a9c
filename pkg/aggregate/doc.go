// Package aggregate implements the user-space side of spec §4.4's
// finalization step and §4.5's aggregator: a fixed-capacity
// stack-trace table that hashes a walked native stack down to a
// user_stack_id, a bounded counts map keyed by stack_count_key, and a
// set of named error-outcome counters (§7).
//
// The kernel-side program this system reimplements in pkg/unwind would
// do the table insert and the counts-map increment itself, atomically,
// inside the same bounded-step invocation that produced the stack.
// Package aggregate's Aggregator.Record plays that role for the pure
// Go path: pkg/collect calls it once per completed (or degraded) walk.
package aggregate
