package unwind

import "github.com/gmarler/lightswitch/pkg/types"

// Stack is the walker's bounded result: the user-space addresses
// collected before termination, oldest-caller-last, capped at
// types.MaxStackDepth (spec §3 Native stack).
type Stack struct {
	Addresses []uint64
	Outcome   ErrorKind
	TailCalls int
}

// state carries a single logical walk's registers across tail-call
// boundaries, mirroring spec §4.4's unwinder_state_t exactly so the
// per-invocation loop below can be read as a direct translation of
// the bounded BPF program it stands in for.
type state struct {
	ip, sp, bp uint64
	stack      []uint64
}

// Walk performs the bounded-step stack walk of spec §4.4: starting
// from (ip, sp, bp), it resolves ip's mapping, binary-searches the
// covering chunk and row, computes the caller's registers per the
// row's CFA/RBP rule, and repeats — tail-chaining in up to
// types.MaxTailCalls batches of types.MaxFramesPerProgram advances
// each — until the stack unwinds to ip == 0, hits
// types.MaxStackDepth, or an unsupported construct is found.
func Walk(mem Memory, rows RowSource, info *ProcessInfo, ip, sp, bp uint64) Stack {
	if info.IsJIT {
		return walkFastPath(mem, info, ip, sp, bp, true)
	}

	st := &state{ip: ip, sp: sp, bp: bp}

	for tailCalls := 0; ; tailCalls++ {
		outcome, framesLeft := stepProgram(mem, rows, info, st)
		if outcome != Success || !framesLeft {
			return Stack{Addresses: st.stack, Outcome: outcome, TailCalls: tailCalls}
		}
		if tailCalls+1 >= types.MaxTailCalls {
			return Stack{Addresses: st.stack, Outcome: ErrTruncated, TailCalls: tailCalls + 1}
		}
	}
}

// stepProgram performs one bounded invocation: up to
// types.MaxFramesPerProgram frame advances. It returns the outcome of
// the step (Success unless a terminal condition was hit) and whether
// frames remain to walk: true when the invocation merely exhausted its
// budget (the walk continues via tail call), false when it is done —
// new_ip == 0 or any terminal outcome. Hitting
// types.MaxStackDepth with more frames still to walk (new_ip != 0) is
// reported as ErrTruncated, matching spec §8 scenario S5: the captured
// stack is truncated relative to the true, deeper call chain.
func stepProgram(mem Memory, rows RowSource, info *ProcessInfo, st *state) (ErrorKind, bool) {
	for i := 0; i < types.MaxFramesPerProgram; i++ {
		m, ok := findMapping(info, st.ip)
		if !ok {
			return ErrPCNotCovered, false
		}
		if m.Type == types.MappingJIT || len(m.Chunks) == 0 {
			// JIT-generated code and mappings with nothing published
			// yet have no DWARF table to consult, so the rest of the
			// stack is walked as a plain bp chain and the walk ends
			// there; frames further up are not looked up in DWARF
			// tables, even when they fall in mappings with published
			// chunks. A read fault partway through a JIT mapping's
			// chain is attributed to error_jit rather than the generic
			// catchall, since walking JIT code without frame pointers
			// is explicitly out of scope.
			fp := walkFastPath(mem, info, st.ip, st.sp, st.bp, m.Type == types.MappingJIT)
			st.stack = append(st.stack, fp.Addresses...)
			if len(st.stack) > types.MaxStackDepth {
				st.stack = st.stack[:types.MaxStackDepth]
				return ErrTruncated, false
			}
			return fp.Outcome, false
		}

		relPC := st.ip - m.LoadAddress
		chunk, ok := findChunk(m, relPC)
		if !ok {
			return ErrPCNotCovered, false
		}
		row, kind := findRow(rows, chunk, relPC)
		if kind != Success {
			return kind, false
		}
		if row.CFAType == types.CFAEndOfFDEMarker {
			return ErrPCNotCovered, false
		}
		if row.CFAType == types.CFAExpression && row.CFAOffset != types.PLT1 && row.CFAOffset != types.PLT2 {
			return ErrUnsupportedExpression, false
		}

		cfa, ok := computeCFA(row, st.sp, st.bp)
		if !ok {
			return ErrUnsupportedCFARegister, false
		}

		newBP, kind := computeBP(mem, row, cfa, st.bp)
		if kind != Success {
			return kind, false
		}

		newIP, ok := mem.ReadU64(cfa - 8)
		if !ok {
			return ErrCatchall, false
		}

		st.stack = append(st.stack, st.ip)
		st.ip, st.sp, st.bp = newIP, cfa, newBP

		if newIP == 0 {
			return Success, false
		}
		if len(st.stack) >= types.MaxStackDepth {
			return ErrTruncated, false
		}
	}
	return Success, true
}

// computeCFA implements spec §4.4 step 5's CFA computation.
func computeCFA(row types.Row, sp, bp uint64) (uint64, bool) {
	switch row.CFAType {
	case types.CFARBP:
		return bp + uint64(int64(row.CFAOffset)), true
	case types.CFARSP:
		return sp + uint64(int64(row.CFAOffset)), true
	case types.CFAExpression:
		switch row.CFAOffset {
		case types.PLT1:
			return sp + types.PLT1Offset, true
		case types.PLT2:
			return sp + types.PLT2Offset, true
		}
	}
	return 0, false
}

// computeBP implements spec §4.4 step 5's caller-BP recovery.
func computeBP(mem Memory, row types.Row, cfa, bp uint64) (uint64, ErrorKind) {
	switch row.RBPType {
	case types.RBPUnchanged:
		return bp, Success
	case types.RBPOffset:
		addr := cfa + uint64(int64(row.RBPOffset))
		v, ok := mem.ReadU64(addr)
		if !ok {
			return 0, ErrCatchall
		}
		return v, Success
	default:
		return 0, ErrUnsupportedFramePointerAction
	}
}
