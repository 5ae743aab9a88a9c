package cfi

import "github.com/gmarler/lightswitch/pkg/types"

// DW_OP_breg0 is the base opcode for "value of register N plus a signed
// LEB128 offset"; breg7 is RSP. PLT stubs that don't use a frame pointer
// commonly express their CFA this way: DW_OP_breg7 <offset>.
const dwOpBreg0 = 0x70
const dwOpBregRSP = dwOpBreg0 + dwarfRegRSP

// recognizePLTExpression structurally matches the two PLT CFA-expression
// idioms the kernel-side unwinder knows how to execute (spec §3/§4.1):
// CFA = rsp+8 (PLT1) and CFA = rsp+0x10 (PLT2). Any other expression,
// including a structurally identical breg7 with a different offset,
// returns PLTUnknown so the caller tags the row as an unsupported
// expression rather than guessing.
func recognizePLTExpression(expr []byte) uint16 {
	if len(expr) < 2 || expr[0] != dwOpBregRSP {
		return types.PLTUnknown
	}
	off, n, ok := sleb128(expr, 1)
	if !ok || 1+n != len(expr) {
		return types.PLTUnknown
	}
	switch off {
	case types.PLT1Offset:
		return types.PLT1
	case types.PLT2Offset:
		return types.PLT2
	default:
		return types.PLTUnknown
	}
}
