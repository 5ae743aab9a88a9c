package cfi

import (
	"fmt"

	"github.com/go-delve/delve/pkg/dwarf/frame"

	"github.com/gmarler/lightswitch/pkg/types"
)

// compileFDE samples the frame.FrameContext delve computes at every PC
// covered by fde and compresses each into an unwind row. Delve doesn't
// expose the underlying CFI program's instruction boundaries as a
// public API, only EstablishFrame(pc), so this walks one PC at a time
// and leans on coalesce (compile.go) to collapse the runs where the
// rules didn't actually change back down to one row per real change.
// That makes this O(range) calls to EstablishFrame, each itself
// O(range) work re-executing the CIE/FDE program from the top, i.e.
// O(range^2) per function — acceptable since a CFI table is compiled
// once per executable mapping, not per sample.
func compileFDE(fde *frame.FrameDescriptionEntry) ([]types.Row, error) {
	rows := make([]types.Row, 0, fde.End-fde.Begin)
	var firstErr error
	for pc := fde.Begin; pc < fde.End; pc++ {
		ctx, err := fde.EstablishFrame(pc)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("cfi: establish frame at pc=%#x: %w", pc, err)
			}
			continue
		}
		rows = append(rows, contextRow(pc, ctx))
	}
	return rows, firstErr
}

// contextRow compresses one delve FrameContext down to the
// {cfa_type, cfa_offset, rbp_type, rbp_offset} an unwind row needs.
func contextRow(pc uint64, ctx *frame.FrameContext) types.Row {
	r := types.Row{PC: pc}

	switch ctx.CFA.Rule {
	case frame.RuleCFA:
		switch ctx.CFA.Reg {
		case dwarfRegRBP:
			r.CFAType = types.CFARBP
			r.CFAOffset = u16Offset(ctx.CFA.Offset)
		case dwarfRegRSP:
			r.CFAType = types.CFARSP
			r.CFAOffset = u16Offset(ctx.CFA.Offset)
		default:
			r.CFAType = types.CFAExpression
			r.CFAOffset = types.PLTUnknown
		}
	case frame.RuleExpression, frame.RuleValExpression:
		r.CFAType = types.CFAExpression
		r.CFAOffset = recognizePLTExpression(ctx.CFA.Expression)
	default:
		r.CFAType = types.CFAExpression
		r.CFAOffset = types.PLTUnknown
	}

	rbp, ok := ctx.Regs[dwarfRegRBP]
	if !ok {
		r.RBPType = types.RBPUnchanged
		return r
	}
	switch rbp.Rule {
	case frame.RuleUndefined:
		r.RBPType = types.RBPUndefinedReturnAddress
	case frame.RuleOffset, frame.RuleValOffset:
		r.RBPType = types.RBPOffset
		r.RBPOffset = i16Offset(rbp.Offset)
	case frame.RuleRegister:
		r.RBPType = types.RBPRegister
	case frame.RuleExpression, frame.RuleValExpression:
		r.RBPType = types.RBPExpression
	default:
		r.RBPType = types.RBPUnchanged
	}
	return r
}
