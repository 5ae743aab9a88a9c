// Package cfi compiles DWARF Call-Frame-Information from a loaded
// executable's .eh_frame/.eh_frame_hdr (preferred) or .debug_frame
// section into a flat, sorted array of unwind rows: one row per
// program-counter range where unwinding rules change.
//
// Overview
//
//   - Compile(path, mappingPath string) (*Table, error) reads path's
//     CFI section(s) and returns a Table: a sorted []types.Row
//     terminated by an END_OF_FDE_MARKER row, plus a best-effort JIT
//     determination made from mappingPath.
//
//   - CIE/FDE parsing and CFI program interpretation are delegated to
//     go-delve/delve's pkg/dwarf/frame: frame.Parse produces the FDE
//     set, and frame.FrameDescriptionEntry.EstablishFrame(pc) resolves
//     the live register rules at a given pc. This package's only job is
//     compressing what delve resolves down to the rules the kernel-side
//     unwinder can execute: CFA = {rbp,rsp} + offset or one of the two
//     recognized PLT expression idioms (PLT1: rsp+8, PLT2: rsp+0x10),
//     and RBP recovery of {UNCHANGED, OFFSET}. Everything else is still
//     emitted, tagged so the kernel-side program (or its pure-Go
//     stand-in in pkg/unwind) counts it as an unsupported-rule error
//     rather than misreporting a wrong frame — see spec §4.1.
//
//   - Compile is best-effort past the first malformed FDE: on error the
//     caller still gets every row compiled for the FDEs that parsed
//     cleanly, plus the error describing the first failure.
//
// Errors (errors.go)
//
//	ErrUnsupportedCFARegister a CFA register other than RSP/RBP/recognized PLT expr
//	ErrEmpty                 no FDEs were found at all
//
// Executable identity
//
//	Identify(f *os.File) derives a stable executable_id from dev:inode
//	and mtime (spec's Open Questions leave the exact canonicalization
//	implementation-defined provided it is deterministic across restarts).
//
// Package import path: github.com/gmarler/lightswitch/pkg/cfi
package cfi
