// Package collect is the collection/reporting façade (spec §4.7): the
// direct generalization of cmd/consumption/main.go's run function from
// a power-sampling loop to a stack-sampling one. Facade.Run parses
// already-resolved options, wires pkg/target + pkg/proctrack +
// pkg/shard + pkg/unwind + pkg/aggregate + pkg/events together, drives
// the sampling cadence, and on exit writes whichever of pprof
// (google/pprof/profile) or folded-stack flamegraph text the caller
// asked for.
//
// loader.go is the only place cilium/ebpf and golang.org/x/sys/unix's
// perf-event plumbing appear, grounded on
// marselester-diy-parca-agent's cmd/profiler3/main.go. A compiled BPF
// object is never shipped with this repo (the BPF C source is out of
// scope, per spec §1's "hands that table to an in-kernel sampling
// program" being the thing pkg/unwind reimplements in pure Go), so in
// practice the loader almost always degrades to the pkg/unwind path;
// the plumbing exists so a real compiled object slots in without
// further changes the day one exists.
package collect
