package aggregate

import (
	"testing"

	"github.com/gmarler/lightswitch/pkg/types"
)

func TestCountsMapIncrementAccumulates(t *testing.T) {
	cm := NewCountsMap()
	key := StackCountKey{PID: 100, TGID: 100, UserStackID: 5}

	for i := 0; i < 3; i++ {
		if err := cm.Increment(key); err != nil {
			t.Fatalf("Increment: %v", err)
		}
	}

	drained := cm.Drain()
	if drained[key] != 3 {
		t.Fatalf("count = %d, want 3", drained[key])
	}
	if cm.Len() != 0 {
		t.Fatalf("Drain must clear the map atomically, Len() = %d", cm.Len())
	}
}

func TestCountsMapOverflowsAtCapacity(t *testing.T) {
	cm := &CountsMap{counts: make(map[StackCountKey]uint64, types.CountsMapCapacity)}
	for i := 0; i < types.CountsMapCapacity; i++ {
		key := StackCountKey{UserStackID: uint32(i)}
		if err := cm.Increment(key); err != nil {
			t.Fatalf("Increment(%d): %v", i, err)
		}
	}

	overflow := StackCountKey{UserStackID: uint32(types.CountsMapCapacity)}
	if err := cm.Increment(overflow); err != ErrCountsMapFull {
		t.Fatalf("Increment at capacity = %v, want ErrCountsMapFull", err)
	}

	// An existing key may still be incremented past capacity; only new
	// keys are rejected.
	existing := StackCountKey{UserStackID: 0}
	if err := cm.Increment(existing); err != nil {
		t.Fatalf("Increment existing key at capacity: %v", err)
	}
}

// TestCountsMapDeterministicUnderReordering is spec §8 testable
// property 5: for a fixed set of (stack, count) increments applied in
// any order, the final counts map is identical.
func TestCountsMapDeterministicUnderReordering(t *testing.T) {
	keys := []StackCountKey{
		{PID: 1, UserStackID: 1},
		{PID: 1, UserStackID: 2},
		{PID: 2, UserStackID: 1},
	}
	increments := []int{5, 3, 7}

	orderA := NewCountsMap()
	for i, key := range keys {
		for n := 0; n < increments[i]; n++ {
			orderA.Increment(key)
		}
	}

	orderB := NewCountsMap()
	for n := 0; n < increments[2]; n++ {
		orderB.Increment(keys[2])
	}
	for n := 0; n < increments[0]; n++ {
		orderB.Increment(keys[0])
	}
	for n := 0; n < increments[1]; n++ {
		orderB.Increment(keys[1])
	}

	drainedA, drainedB := orderA.Drain(), orderB.Drain()
	if len(drainedA) != len(drainedB) {
		t.Fatalf("map sizes differ: %d vs %d", len(drainedA), len(drainedB))
	}
	for k, v := range drainedA {
		if drainedB[k] != v {
			t.Errorf("key %+v: order A = %d, order B = %d", k, v, drainedB[k])
		}
	}
}
