package unwind

import (
	"github.com/gmarler/lightswitch/pkg/types"
)

// walkFastPath implements spec §4.4's frame-pointer fallback: follow
// the rbp chain directly instead of consulting compiled unwind rows.
// jitAttributed marks that a failure encountered here should be
// reported as ErrJIT (walking JIT code without frame pointers is a
// declared non-goal) rather than the generic ErrCatchall.
func walkFastPath(mem Memory, info *ProcessInfo, ip, sp, bp uint64, jitAttributed bool) Stack {
	faultKind := ErrCatchall
	if jitAttributed {
		faultKind = ErrJIT
	}

	var stack []uint64
	for tailCalls := 0; ; tailCalls++ {
		for i := 0; i < types.MaxFramesPerProgram; i++ {
			if bp == 0 {
				return Stack{Addresses: stack, Outcome: Success, TailCalls: tailCalls}
			}
			retAddr, ok := mem.ReadU64(bp + 8)
			if !ok {
				return Stack{Addresses: stack, Outcome: faultKind, TailCalls: tailCalls}
			}
			callerBP, ok := mem.ReadU64(bp)
			if !ok {
				return Stack{Addresses: stack, Outcome: faultKind, TailCalls: tailCalls}
			}

			stack = append(stack, ip)
			ip, bp = retAddr, callerBP

			if ip == 0 {
				return Stack{Addresses: stack, Outcome: Success, TailCalls: tailCalls}
			}
			if len(stack) >= types.MaxStackDepth {
				return Stack{Addresses: stack, Outcome: ErrTruncated, TailCalls: tailCalls}
			}
		}
		if tailCalls+1 >= types.MaxTailCalls {
			return Stack{Addresses: stack, Outcome: ErrTruncated, TailCalls: tailCalls + 1}
		}
	}
}
