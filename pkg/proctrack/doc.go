// Package proctrack discovers a profiled process's memory mappings from
// /proc/<pid>/maps and assembles the process_info_t records the
// kernel-side unwinder uses to translate a raw program counter into an
// executable and an offset into that executable's unwind table (spec
// §4.3/§6).
//
// A Registry tracks, for every executable currently mapped into any
// tracked process, the unwind chunks pkg/cfi + pkg/shard produced for
// it and a reference count of live mappings. The registry enforces
// publish-before-reference: RegisterMapping fails for an executable_id
// that has not yet had chunks Published for it, so the kernel-visible
// process_info_t can never point at a shard/chunk set that doesn't
// exist yet (spec §8 testable property 6).
//
// Package import path: github.com/gmarler/lightswitch/pkg/proctrack
package proctrack
