// Package unwind implements the bounded-step stack walker of spec §4.4:
// given a sample's (ip, sp, bp) it locates the mapping covering ip,
// binary-searches that mapping's unwind-row chunks, and repeatedly
// computes the caller's (ip, sp, bp) from each row's CFA/RBP rule
// until the stack is exhausted, a hard limit is hit, or an
// unsupported construct is found.
//
// The real system performs this walk as a verified, bounded-loop BPF
// program that tail-calls itself to escape its per-invocation
// instruction budget; that program is out of this module's build
// surface (there is no Go eBPF bytecode emitter here). Walk is a
// faithful, pure-Go port of the same algorithm — same per-invocation
// frame limit, same tail-call budget, same error taxonomy — so it
// serves both as the executable reference for what the BPF program
// must do and as the fallback walker pkg/collect uses when no
// compiled BPF object is supplied (--no-bpf, or a kernel too old to
// load one).
//
// Package import path: github.com/gmarler/lightswitch/pkg/unwind
package unwind
