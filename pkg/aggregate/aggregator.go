package aggregate

import (
	"github.com/gmarler/lightswitch/pkg/unwind"
)

// ResolvedStack is one (stack, count) tuple streamed to the external
// symbolizer/renderer by Drain (spec §4.5).
type ResolvedStack struct {
	Key   StackCountKey
	Stack []uint64
	Count uint64
}

// Aggregator ties the stack-trace table, counts map and error
// counters together and plays the role spec §4.4's "Finalization" and
// §4.5's drain logic assign to the kernel-side program and its
// user-space counterpart. One Aggregator is shared process-wide (spec
// §9 "Global state"): its methods are safe for concurrent use.
type Aggregator struct {
	table    *StackTraceTable
	counts   *CountsMap
	counters *ErrorCounters
}

// New returns an Aggregator with empty table, counts and counters.
func New() *Aggregator {
	return &Aggregator{
		table:    NewStackTraceTable(),
		counts:   NewCountsMap(),
		counters: NewErrorCounters(),
	}
}

// Record finalizes one completed or degraded walk: it inserts the
// walked stack into the stack-trace table, fills in key.UserStackID
// with the resulting slot, and increments the counts map. outcome is
// recorded under its own named counter regardless of whether the
// stack is complete, partial (S4) or truncated (S5) — success_dwarf
// only advances when outcome is unwind.Success.
//
// A hash collision (spec scenario S6) does not fail the sample: the
// second stack's identity degenerates to the slot already occupied,
// STACK_COLLISION is incremented, and the count is still recorded
// under that slot.
func (a *Aggregator) Record(outcome unwind.ErrorKind, stack []uint64, key StackCountKey) error {
	a.counters.IncrementOutcome(outcome)

	slot, collided := a.table.Insert(stack)
	if collided {
		a.counters.IncrementOutcome(unwind.ErrStackCollision)
	}
	key.UserStackID = slot

	if err := a.counts.Increment(key); err != nil {
		a.counters.IncrementCountsOverflow()
		return err
	}
	return nil
}

// Drain atomically clears the counts map and returns every
// (stack_count_key, stack, count) tuple it held, with user_stack_id
// resolved back to its address slice via the stack-trace table. This
// is spec §4.5's periodic aggregation cadence; the caller decides how
// often to invoke it.
func (a *Aggregator) Drain() []ResolvedStack {
	raw := a.counts.Drain()
	out := make([]ResolvedStack, 0, len(raw))
	for key, count := range raw {
		stack, _ := a.table.Resolve(key.UserStackID)
		out = append(out, ResolvedStack{Key: key, Stack: stack, Count: count})
	}
	return out
}

// Errors returns a snapshot of every named error/outcome counter
// (spec §7), keyed by the exact names the spec uses.
func (a *Aggregator) Errors() map[string]uint64 {
	return a.counters.Snapshot()
}
