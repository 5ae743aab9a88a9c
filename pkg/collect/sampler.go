//go:build linux

package collect

import (
	"sync"

	"github.com/gmarler/lightswitch/pkg/aggregate"
	"github.com/gmarler/lightswitch/pkg/proctrack"
	"github.com/gmarler/lightswitch/pkg/shard"
	"github.com/gmarler/lightswitch/pkg/unwind"
)

// Sampler drives the pure-Go sampling path: for each tracked PID it
// keeps an up-to-date unwind.ProcessInfo (refreshed via events.Handler
// callbacks) and, once per tick, reads that PID's registers and hands
// them to unwind.Walk, recording the result into the aggregator. This
// is the user-space substitute for the kernel-side sampler + bounded
// unwinder program described in spec §4.4, used whenever no BPF
// program is armed (the common case; see loader.go).
type Sampler struct {
	alloc     *shard.Allocator
	registry  *proctrack.Registry
	publisher *Publisher
	agg       *aggregate.Aggregator
	regs      RegisterReader

	mu    sync.Mutex
	procs map[int]unwind.ProcessInfo
}

// NewSampler wires a Sampler over an existing allocator/registry/
// aggregator. All are shared, single-owner maps per spec §5; Sampler
// only ever reaches them through their exported methods.
func NewSampler(alloc *shard.Allocator, registry *proctrack.Registry, agg *aggregate.Aggregator, regs RegisterReader) *Sampler {
	return &Sampler{
		alloc:     alloc,
		registry:  registry,
		publisher: NewPublisher(alloc, registry),
		agg:       agg,
		regs:      regs,
		procs:     make(map[int]unwind.ProcessInfo),
	}
}

// Refresh re-reads pid's mappings, publishing CFI for any executable
// not yet seen, and rebuilds pid's cached unwind.ProcessInfo. Called
// on EVENT_NEW_PROCESS and on every reconciliation tick (spec §4.3).
func (s *Sampler) Refresh(pid int) error {
	mappings, err := proctrack.ReadMaps(pid)
	if err != nil {
		s.mu.Lock()
		delete(s.procs, pid)
		s.mu.Unlock()
		return err
	}

	for _, m := range mappings {
		if m.ExecutableID == "" {
			continue
		}
		// Best-effort: a publish failure degrades this executable's
		// samples to error_pc_not_covered rather than aborting the
		// whole refresh (spec §4.2 "capacity exhaustion... aggregator
		// treats it as executable not publishable").
		_ = s.publisher.EnsurePublished(m.ExecutableID, m.Pathname, m.Pathname)
	}

	info := toUnwindProcessInfo(mappings, s.registry)
	s.mu.Lock()
	s.procs[pid] = info
	s.mu.Unlock()
	return nil
}

// Drop removes pid's cached process info, e.g. on process exit.
func (s *Sampler) Drop(pid int) {
	s.mu.Lock()
	delete(s.procs, pid)
	s.mu.Unlock()
}

// Targets returns the PIDs Sampler currently has process info cached
// for.
func (s *Sampler) Targets() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.procs))
	for pid := range s.procs {
		out = append(out, pid)
	}
	return out
}

// HandleNewProcess implements events.Handler: publish and cache
// process info for a newly observed PID.
func (s *Sampler) HandleNewProcess(pid int) {
	_ = s.Refresh(pid)
}

// HandleRefresh implements events.Handler: re-read mappings for every
// PID currently tracked, catching up on any missed EVENT_NEW_PROCESS
// and picking up mapping changes (spec §4.3, §4.6).
func (s *Sampler) HandleRefresh() {
	for _, pid := range s.Targets() {
		_ = s.Refresh(pid)
	}
}

// SampleOnce reads pid's current registers and walks its stack once,
// recording the outcome into the aggregator. A register-read failure
// (the process likely exited between tiers) is swallowed here; the
// reconciliation tick will drop it once proc tracking notices.
func (s *Sampler) SampleOnce(pid int) {
	s.mu.Lock()
	info, ok := s.procs[pid]
	s.mu.Unlock()
	if !ok {
		return
	}

	ip, sp, bp, err := s.regs.Read(pid)
	if err != nil {
		return
	}

	mem := unwind.ProcessMemory{PID: pid}
	st := unwind.Walk(mem, s.alloc, &info, ip, sp, bp)

	key := aggregate.StackCountKey{PID: uint32(pid), TGID: uint32(pid)}
	_ = s.agg.Record(st.Outcome, st.Addresses, key)
}
