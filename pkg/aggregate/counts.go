package aggregate

import (
	"sync"

	"github.com/gmarler/lightswitch/pkg/types"
)

// StackCountKey is the composite identity spec §3 aggregates samples
// under: {task_id, pid, tgid, user_stack_id, kernel_stack_id}.
// kernel_stack_id is opaque here — kernel-stack collection is a
// declared non-goal (spec §1) and this system only ever sets it from
// whatever the external collaborator supplies, or 0 when absent.
type StackCountKey struct {
	TaskID        uint32
	PID           uint32
	TGID          uint32
	UserStackID   uint32
	KernelStackID uint32
}

// CountsMap is the bounded sample-count table of spec §4.4/§4.5: a
// single-writer-per-key map with atomic increments, capacity-limited
// to types.CountsMapCapacity entries. Overflow past capacity is a
// counted failure (ErrCountsMapFull), never an unbounded grow.
type CountsMap struct {
	mu     sync.Mutex
	counts map[StackCountKey]uint64
}

// NewCountsMap returns an empty counts map.
func NewCountsMap() *CountsMap {
	return &CountsMap{counts: make(map[StackCountKey]uint64)}
}

// Increment adds one sample under key, failing with ErrCountsMapFull
// if key is new and the map is already at capacity.
func (c *CountsMap) Increment(key StackCountKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.counts[key]; !ok && len(c.counts) >= types.CountsMapCapacity {
		return ErrCountsMapFull
	}
	c.counts[key]++
	return nil
}

// Drain atomically copies out and clears the counts map, matching
// spec §4.5's "clears the counts map atomically per drain."
func (c *CountsMap) Drain() map[StackCountKey]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[StackCountKey]uint64, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	c.counts = make(map[StackCountKey]uint64)
	return out
}

// Len reports the number of distinct keys currently held.
func (c *CountsMap) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.counts)
}
