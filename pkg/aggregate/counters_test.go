package aggregate

import (
	"testing"

	"github.com/gmarler/lightswitch/pkg/unwind"
)

func TestErrorCountersSnapshotUsesSpecNames(t *testing.T) {
	c := NewErrorCounters()
	c.IncrementOutcome(unwind.Success)
	c.IncrementOutcome(unwind.ErrTruncated)
	c.IncrementOutcome(unwind.ErrTruncated)
	c.IncrementOutcome(unwind.ErrStackCollision)
	c.IncrementCountsOverflow()

	snap := c.Snapshot()
	cases := map[string]uint64{
		"success_dwarf":       1,
		"error_truncated":     2,
		"STACK_COLLISION":     1,
		"counts_map_overflow": 1,
	}
	for name, want := range cases {
		if snap[name] != want {
			t.Errorf("snap[%q] = %d, want %d", name, snap[name], want)
		}
	}
	if snap["error_catchall"] != 0 {
		t.Errorf("untouched counter should read 0, got %d", snap["error_catchall"])
	}
}
