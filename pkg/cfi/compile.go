package cfi

import (
	"bytes"
	"debug/elf"
	"fmt"
	"os"
	"sort"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/go-delve/delve/pkg/dwarf/frame"

	"github.com/gmarler/lightswitch/pkg/types"
)

// Table is the sorted, gap-closed array of unwind rows compiled for one
// executable (spec §3/§4.1).
type Table struct {
	ExecutableID string
	Rows         []types.Row
	JIT          bool
}

// Compile reads path's .eh_frame (preferred) or .debug_frame and
// produces a sorted table of unwind rows terminated by an
// END_OF_FDE_MARKER. mappingPath is the pathname under which the
// executable is mapped into the profiled process (used only for the
// JIT heuristic); pass path itself when there is no separate mapping
// name.
func Compile(path, mappingPath string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cfi: open %s: %w", path, err)
	}
	defer f.Close()

	id, err := Identify(f)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cfi: stat %s: %w", path, err)
	}
	if fi.Size() == 0 {
		return nil, ErrEmpty
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("cfi: mmap %s: %w", path, err)
	}
	defer data.Unmap()

	ef, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cfi: parse ELF %s: %w", path, err)
	}
	defer ef.Close()

	fdes, err := locateAndParseFrames(ef)
	if err != nil {
		return nil, err
	}
	if len(fdes) == 0 {
		return nil, ErrEmpty
	}

	sort.Slice(fdes, func(i, j int) bool { return fdes[i].Begin < fdes[j].Begin })

	rows := make([]types.Row, 0, len(fdes)*4)
	var firstErr error
	for i, f := range fdes {
		fdeRows, err := compileFDE(f)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("cfi: fde[%d] at pc=%#x: %w", i, f.Begin, err)
		}
		rows = append(rows, fdeRows...)

		lastCoveredToNext := i == len(fdes)-1 || f.End != fdes[i+1].Begin
		if lastCoveredToNext {
			rows = append(rows, types.Row{PC: f.End, CFAType: types.CFAEndOfFDEMarker})
		}
	}

	rows = coalesce(rows)
	if err := verifyMonotonic(rows); err != nil {
		return nil, err
	}

	t := &Table{ExecutableID: id, Rows: rows, JIT: LooksJIT(mappingPath)}
	return t, firstErr
}

// locateAndParseFrames finds .eh_frame or, failing that, .debug_frame
// and hands it to delve's frame.Parse, which owns all CIE/FDE record
// parsing (augmentation strings, pointer encodings, LEB128 operands).
// staticBase is 0 in both cases: Row.PC is defined relative to the
// executable's own preferred load address, the same frame the section
// data is already expressed in, so no relocation is needed here.
func locateAndParseFrames(ef *elf.File) (frame.FrameDescriptionEntries, error) {
	ptrSize := 4
	if ef.Class == elf.ELFCLASS64 {
		ptrSize = 8
	}

	if sec := ef.Section(".eh_frame"); sec != nil {
		data, err := sec.Data()
		if err != nil {
			return nil, fmt.Errorf("cfi: read .eh_frame: %w", err)
		}
		return frame.Parse(data, ef.ByteOrder, 0, ptrSize, sec.Addr), nil
	}
	if sec := ef.Section(".debug_frame"); sec != nil {
		data, err := sec.Data()
		if err != nil {
			return nil, fmt.Errorf("cfi: read .debug_frame: %w", err)
		}
		return frame.Parse(data, ef.ByteOrder, 0, ptrSize, 0), nil
	}
	return nil, ErrNoFrameSection
}

// coalesce merges adjacent rows whose compressed rules are
// bit-identical, per spec §4.1 step 4.
func coalesce(rows []types.Row) []types.Row {
	if len(rows) == 0 {
		return rows
	}
	out := rows[:1]
	for _, r := range rows[1:] {
		last := out[len(out)-1]
		if r.PC == last.PC {
			// Last write at a given PC wins. compileFDE emits one row
			// per pc, so this only happens when two FDEs cover the
			// same pc.
			out[len(out)-1] = r
			continue
		}
		if sameRules(last, r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func sameRules(a, b types.Row) bool {
	return a.CFAType == b.CFAType && a.RBPType == b.RBPType &&
		a.CFAOffset == b.CFAOffset && a.RBPOffset == b.RBPOffset
}

// verifyMonotonic checks the strict-sort invariant from spec §3/§8
// property 1.
func verifyMonotonic(rows []types.Row) error {
	for i := 1; i < len(rows); i++ {
		if rows[i].PC <= rows[i-1].PC {
			return fmt.Errorf("cfi: rows not strictly increasing at index %d (pc %#x <= %#x)",
				i, rows[i].PC, rows[i-1].PC)
		}
	}
	return nil
}
