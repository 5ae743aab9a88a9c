package aggregate

import (
	"encoding/binary"
	"hash/fnv"
	"sync"

	"github.com/gmarler/lightswitch/pkg/types"
)

// StackTraceTable is the fixed-capacity hashed table described in
// spec §4.4's finalization step: every distinct walked stack is
// inserted once, keyed by a hash of its addresses, and resolved back
// to its address slice by the aggregator on drain (§4.5).
//
// Capacity is types.StackTraceTableCapacity slots, matching the
// kernel-side map this package's Insert stands in for. A hash
// collision between two distinct stacks degrades the second stack's
// identity to the slot already occupied (spec scenario S6); the
// caller is told so via the collided return value and must count it
// under STACK_COLLISION.
type StackTraceTable struct {
	mu    sync.Mutex
	slots map[uint32][]uint64
}

// NewStackTraceTable returns an empty table.
func NewStackTraceTable() *StackTraceTable {
	return &StackTraceTable{slots: make(map[uint32][]uint64)}
}

// Insert hashes stack to a slot and stores it there if the slot is
// empty or already holds an identical stack. If the slot holds a
// different stack, this is a collision: the existing occupant is left
// untouched and collided is true. The returned slot id is the
// user_stack_id to carry in the stack_count_key either way.
func (t *StackTraceTable) Insert(stack []uint64) (slot uint32, collided bool) {
	slot = hashStack(stack) % uint32(types.StackTraceTableCapacity)
	return slot, t.insertAt(slot, stack)
}

// insertAt is Insert's occupancy-check logic with the slot computed
// by the caller, factored out so tests can exercise the collision
// branch without needing a genuine fnv collision.
func (t *StackTraceTable) insertAt(slot uint32, stack []uint64) (collided bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.slots[slot]
	if !ok {
		t.slots[slot] = append([]uint64(nil), stack...)
		return false
	}
	return !stacksEqual(existing, stack)
}

// Resolve returns the stack stored at slot, if any.
func (t *StackTraceTable) Resolve(slot uint32) ([]uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.slots[slot]
	return s, ok
}

// Len reports how many distinct slots are occupied.
func (t *StackTraceTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.slots)
}

func hashStack(stack []uint64) uint32 {
	h := fnv.New64a()
	var buf [8]byte
	for _, addr := range stack {
		binary.LittleEndian.PutUint64(buf[:], addr)
		h.Write(buf[:])
	}
	sum := h.Sum64()
	return uint32(sum ^ (sum >> 32))
}

func stacksEqual(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
