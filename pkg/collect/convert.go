//go:build linux

package collect

import (
	"github.com/gmarler/lightswitch/pkg/proctrack"
	"github.com/gmarler/lightswitch/pkg/types"
	"github.com/gmarler/lightswitch/pkg/unwind"
)

// toUnwindProcessInfo adapts pkg/proctrack's rich mapping list (as
// read directly off /proc/<pid>/maps, before it's packed into the
// ABI-encodable process_info_t) into the in-memory form
// pkg/unwind.Walk consumes: each mapping's already-published chunks,
// looked up from the same Registry the publisher writes through.
//
// The façade uses this richer proctrack.Mapping slice rather than
// proctrack.ProcessInfo/MappingRecord for the pure-Go walk because
// the ABI record only carries a 64-bit ExecutableHash (spec §6) —
// sufficient for a kernel-visible map, but lossy for looking chunks
// back up by the Registry's string-keyed executable_id.
func toUnwindProcessInfo(mappings []proctrack.Mapping, reg *proctrack.Registry) unwind.ProcessInfo {
	var out unwind.ProcessInfo
	for _, m := range mappings {
		if m.Type == types.MappingJIT {
			out.IsJIT = true
		}

		var loadAddress uint64
		if m.FileOffset <= m.LowPC {
			loadAddress = m.LowPC - m.FileOffset
		}

		um := unwind.Mapping{
			LoadAddress: loadAddress,
			Begin:       m.LowPC,
			End:         m.HighPC,
			Type:        m.Type,
		}
		if m.ExecutableID != "" {
			if chunks, ok := reg.Chunks(m.ExecutableID); ok {
				um.Chunks = chunks
			}
		}
		out.Mappings = append(out.Mappings, um)
	}
	return out
}
