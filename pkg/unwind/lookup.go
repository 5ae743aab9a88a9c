package unwind

import (
	"github.com/gmarler/lightswitch/pkg/shard"
	"github.com/gmarler/lightswitch/pkg/types"
)

// findMapping linearly scans info.Mappings (bounded by
// types.MaxMappingsPerProcess) for the one containing ip, matching
// spec §4.4 step 1's "linear scan, ≤300" exactly — a binary search
// would require mappings keyed purely by address with no gaps
// checking, and the spec is explicit that this step is linear.
func findMapping(info *ProcessInfo, ip uint64) (Mapping, bool) {
	for i, m := range info.Mappings {
		if i >= types.MaxMappingsPerProcess {
			break
		}
		if m.Contains(ip) {
			return m, true
		}
	}
	return Mapping{}, false
}

// findChunk binary-searches m.Chunks for the one whose [LowPC, HighPC)
// contains relPC (spec §4.4 step 3).
func findChunk(m Mapping, relPC uint64) (shard.Chunk, bool) {
	lo, hi := 0, len(m.Chunks)
	for lo < hi {
		mid := (lo + hi) / 2
		c := m.Chunks[mid]
		switch {
		case relPC < c.LowPC:
			hi = mid
		case relPC >= c.HighPC:
			lo = mid + 1
		default:
			return c, true
		}
	}
	return shard.Chunk{}, false
}

// findRow binary-searches rows [chunk.LowIndex, chunk.HighIndex)
// within the chunk's shard for the greatest row whose PC <= relPC
// (spec §4.4 step 4), bounded to types.MaxRowSearchIterations
// iterations. Returns ErrShouldNeverHappen if the bound is exceeded —
// an invariant violation, since a chunk never holds more than
// types.ShardCapacityRows rows.
func findRow(rows RowSource, c shard.Chunk, relPC uint64) (types.Row, ErrorKind) {
	lo, hi := c.LowIndex, c.HighIndex
	var best types.Row
	found := false

	for iter := 0; ; iter++ {
		if iter >= types.MaxRowSearchIterations {
			return types.Row{}, ErrShouldNeverHappen
		}
		if lo >= hi {
			break
		}
		mid := lo + (hi-lo)/2
		row, ok := rows.RowAt(c.ShardIndex, mid)
		if !ok {
			return types.Row{}, ErrShouldNeverHappen
		}
		if row.PC <= relPC {
			best = row
			found = true
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if !found {
		return types.Row{}, ErrPCNotCovered
	}
	return best, Success
}
