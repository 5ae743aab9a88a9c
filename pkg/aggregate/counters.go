package aggregate

import (
	"sync/atomic"

	"github.com/gmarler/lightswitch/pkg/unwind"
)

// ErrorCounters holds the named, monotonically-increasing counters
// spec §7 requires: one bucket per unwind.ErrorKind (success_dwarf
// included), plus counts-map overflow, which has no ErrorKind of its
// own because it is detected at aggregation time rather than during
// the walk itself.
type ErrorCounters struct {
	kinds          [unwind.ErrStackCollision + 1]atomic.Uint64
	countsOverflow atomic.Uint64
}

// NewErrorCounters returns a zeroed set of counters.
func NewErrorCounters() *ErrorCounters {
	return &ErrorCounters{}
}

// IncrementOutcome adds one to kind's bucket.
func (c *ErrorCounters) IncrementOutcome(kind unwind.ErrorKind) {
	c.kinds[kind].Add(1)
}

// IncrementCountsOverflow records a dropped increment caused by the
// counts map being at capacity.
func (c *ErrorCounters) IncrementCountsOverflow() {
	c.countsOverflow.Add(1)
}

// Snapshot returns the current value of every named counter, keyed by
// spec §7's exact names plus "counts_map_overflow".
func (c *ErrorCounters) Snapshot() map[string]uint64 {
	out := make(map[string]uint64, len(c.kinds)+1)
	for k := range c.kinds {
		kind := unwind.ErrorKind(k)
		out[kind.String()] = c.kinds[k].Load()
	}
	out["counts_map_overflow"] = c.countsOverflow.Load()
	return out
}
