package shard

import (
	"fmt"

	"github.com/gmarler/lightswitch/pkg/types"
)

// shardArena is one shard's row arena; Allocator is the single
// writer for every shard, matching the single-writer-per-map discipline
// spec §5 requires.
type shardArena struct {
	rows []types.Row // len == used, cap == types.ShardCapacityRows
}

func newShardArena() *shardArena {
	return &shardArena{rows: make([]types.Row, 0, types.ShardCapacityRows)}
}

func (s *shardArena) free() int { return types.ShardCapacityRows - len(s.rows) }

// Allocator packs unwind rows from many executables into a bounded set
// of shards, splitting an executable's table into chunks when it
// doesn't fit in the remaining space of the current shard (spec §4.2).
type Allocator struct {
	maxShards int
	shards    []*shardArena
	current   int // index into shards of the shard new rows are appended to
}

// NewAllocator creates an allocator bounded to maxShards shards (spec's
// "up to ~25 shards"); pass types.MaxShards for the default.
func NewAllocator(maxShards int) *Allocator {
	if maxShards <= 0 {
		maxShards = types.MaxShards
	}
	return &Allocator{maxShards: maxShards}
}

// ShardCount reports how many shards have been allocated so far.
func (a *Allocator) ShardCount() int { return len(a.shards) }

// RowCount reports the total number of rows stored across all shards.
func (a *Allocator) RowCount() int {
	n := 0
	for _, s := range a.shards {
		n += len(s.rows)
	}
	return n
}

func (a *Allocator) ensureCurrentShard() (*shardArena, error) {
	if len(a.shards) == 0 {
		if a.maxShards == 0 {
			return nil, ErrShardsExhausted
		}
		a.shards = append(a.shards, newShardArena())
		a.current = 0
	}
	return a.shards[a.current], nil
}

func (a *Allocator) advanceShard() (*shardArena, error) {
	next := a.current + 1
	if next == len(a.shards) {
		if len(a.shards) >= a.maxShards {
			return nil, ErrShardsExhausted
		}
		a.shards = append(a.shards, newShardArena())
	}
	a.current = next
	return a.shards[a.current], nil
}

// Publish appends rows to the current shard, or splits them across
// successive shards into up to types.MaxChunksPerExecutable chunks,
// and returns the ordered chunk list describing where every row ended
// up (spec §4.2 steps 1-3).
func (a *Allocator) Publish(rows []types.Row) ([]Chunk, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyRows
	}

	cur, err := a.ensureCurrentShard()
	if err != nil {
		return nil, err
	}

	var chunks []Chunk
	start := 0
	for start < len(rows) {
		if len(chunks) >= types.MaxChunksPerExecutable {
			return nil, ErrTooManyChunks
		}

		room := cur.free()
		if room == 0 {
			cur, err = a.advanceShard()
			if err != nil {
				return nil, fmt.Errorf("shard: publish: %w", err)
			}
			room = cur.free()
		}

		n := len(rows) - start
		if n > room {
			n = room
		}

		shardIdx := a.current
		lowIdx := len(cur.rows)
		cur.rows = append(cur.rows, rows[start:start+n]...)
		highIdx := len(cur.rows)

		highPC := rows[start+n-1].PC
		if start+n < len(rows) {
			highPC = rows[start+n].PC
		}

		chunks = append(chunks, Chunk{
			LowPC:      rows[start].PC,
			HighPC:     highPC,
			ShardIndex: uint32(shardIdx),
			LowIndex:   uint32(lowIdx),
			HighIndex:  uint32(highIdx),
		})

		start += n
	}

	return chunks, nil
}

// RowAt returns the row stored at shard shardIndex, index idx. It is
// used by pkg/unwind's reference walker to resolve a chunk's rows the
// same way the kernel-visible shard map would.
func (a *Allocator) RowAt(shardIndex, idx uint32) (types.Row, bool) {
	if int(shardIndex) >= len(a.shards) {
		return types.Row{}, false
	}
	s := a.shards[shardIndex]
	if int(idx) >= len(s.rows) {
		return types.Row{}, false
	}
	return s.rows[idx], true
}
