package unwind

import (
	"github.com/gmarler/lightswitch/pkg/shard"
	"github.com/gmarler/lightswitch/pkg/types"
)

// Mapping is the walker's view of one of a process's executable
// memory mappings (spec §3's `{executable_id, type, load_address,
// begin, end}`), with its unwind chunks already resolved. A Mapping
// with no Chunks has nothing published for it yet (or is anonymous/
// JIT) and is only walkable via the frame-pointer fast path.
type Mapping struct {
	LoadAddress uint64
	Begin       uint64
	End         uint64
	Type        types.MappingType
	Chunks      []shard.Chunk // sorted by LowPC
}

// Contains reports whether ip falls within this mapping's address
// range.
func (m Mapping) Contains(ip uint64) bool {
	return ip >= m.Begin && ip < m.End
}

// ProcessInfo is the walker's resolved view of spec §3's process_info:
// mappings sorted by Begin, plus the process-wide JIT taint flag.
type ProcessInfo struct {
	IsJIT    bool
	Mappings []Mapping // sorted by Begin
}

// RowSource resolves a chunk's (shardIndex, index) coordinate to its
// stored row; pkg/shard.Allocator implements this directly.
type RowSource interface {
	RowAt(shardIndex, idx uint32) (types.Row, bool)
}
