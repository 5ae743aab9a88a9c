//go:build linux

package proctrack

import (
	"hash/fnv"

	"github.com/gmarler/lightswitch/pkg/types"
)

// MappingRecord is one 32-byte entry of a process_info_t's mappings
// array (spec §6): the mapped PC range, the file offset at which the
// range begins, and a hash of the backing executable_id the
// kernel-side program uses to key its per-executable chunk/shard
// lookup. A zero ExecutableHash means the mapping has no backing
// executable table (anonymous, vdso, or an unidentifiable file).
type MappingRecord struct {
	LowPC          uint64
	HighPC         uint64
	FileOffset     uint64
	ExecutableHash uint64
}

// Encode packs a MappingRecord into its little-endian ABI bytes.
func (m MappingRecord) Encode() [types.MappingRecordSize]byte {
	var b [types.MappingRecordSize]byte
	putU64(b[0:8], m.LowPC)
	putU64(b[8:16], m.HighPC)
	putU64(b[16:24], m.FileOffset)
	putU64(b[24:32], m.ExecutableHash)
	return b
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

// ExecutableHash derives the stable 64-bit key an encoded
// MappingRecord uses to reference an executable_id without embedding
// the variable-length string itself in the fixed-size ABI record.
func ExecutableHash(executableID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(executableID))
	return h.Sum64()
}

// ProcessInfo is the full process_info_t record the kernel-side
// unwinder consults to resolve a raw PC to a mapping (spec §6): a
// process is JIT-tainted if any of its mappings looked like a managed
// runtime's code heap, and its mappings appear in /proc/<pid>/maps
// order, which is ascending by LowPC. The unwinder scans them linearly.
type ProcessInfo struct {
	PID      int
	IsJIT    bool
	Mappings []MappingRecord
}

// Build reads /proc/<pid>/maps, resolves every executable mapping
// against reg (registering a live reference for its executable and
// skipping mappings whose executable has not been published yet —
// the caller is expected to compile and Publish new executables
// before calling Build again), and returns the bounded ProcessInfo.
// Mappings beyond types.MaxMappingsPerProcess are dropped; callers
// should treat that as ErrTooManyMappings having been logged, not a
// silent success (spec §3 invariant: fixed capacities are hard
// ceilings).
func Build(pid int, reg *Registry) (ProcessInfo, error) {
	raw, err := ReadMaps(pid)
	if err != nil {
		return ProcessInfo{}, err
	}

	info := ProcessInfo{PID: pid}
	var truncated error
	for _, m := range raw {
		if m.Type == types.MappingJIT {
			info.IsJIT = true
		}
		if m.ExecutableID == "" {
			continue
		}
		if _, err := reg.RegisterMapping(m.ExecutableID); err != nil {
			continue
		}
		if len(info.Mappings) >= types.MaxMappingsPerProcess {
			truncated = ErrTooManyMappings
			continue
		}
		info.Mappings = append(info.Mappings, MappingRecord{
			LowPC:          m.LowPC,
			HighPC:         m.HighPC,
			FileOffset:     m.FileOffset,
			ExecutableHash: ExecutableHash(m.ExecutableID),
		})
	}
	return info, truncated
}

// Encode packs a ProcessInfo into the fixed-size process_info_t ABI
// record of spec §6: {is_jit: u32, len: u32, mappings[300] x 32B}.
func (p ProcessInfo) Encode() [types.ProcessInfoRecordSize]byte {
	var b [types.ProcessInfoRecordSize]byte
	if p.IsJIT {
		putU32(b[0:4], 1)
	}
	putU32(b[4:8], uint32(len(p.Mappings)))
	for i, m := range p.Mappings {
		if i >= types.MaxMappingsPerProcess {
			break
		}
		rec := m.Encode()
		start := 8 + i*types.MappingRecordSize
		copy(b[start:start+types.MappingRecordSize], rec[:])
	}
	return b
}

func putU32(b []byte, v uint32) {
	for i := 0; i < 4; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
