package collect

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/pprof/profile"

	"github.com/gmarler/lightswitch/pkg/aggregate"
)

// WritePprof renders resolved stacks as a pprof CPU profile, grounded
// on profiler3's newProfile/fillProfile (marselester-diy-parca-agent):
// one Location per distinct address, one Sample per resolved stack
// with its count as the sample value. Locations carry Address only
// and no Mapping is written — symbolization is an external collaborator
// (spec §1 non-goals) invoked separately via --symbolizer.
func WritePprof(w io.Writer, stacks []aggregate.ResolvedStack, duration time.Duration) error {
	prof := &profile.Profile{
		SampleType:    []*profile.ValueType{{Type: "samples", Unit: "count"}},
		TimeNanos:     timeNanosStamp(),
		DurationNanos: int64(duration),
		PeriodType:    &profile.ValueType{Type: "cpu", Unit: "nanoseconds"},
		Period:        1,
	}

	locIndex := make(map[uint64]*profile.Location)
	nextID := uint64(1)

	for _, rs := range stacks {
		var locs []*profile.Location
		for _, addr := range rs.Stack {
			loc, ok := locIndex[addr]
			if !ok {
				loc = &profile.Location{ID: nextID, Address: addr}
				nextID++
				locIndex[addr] = loc
				prof.Location = append(prof.Location, loc)
			}
			locs = append(locs, loc)
		}
		prof.Sample = append(prof.Sample, &profile.Sample{
			Value:    []int64{int64(rs.Count)},
			Location: locs,
		})
	}

	return prof.Write(w)
}

// WriteFolded renders resolved stacks as folded-stack text
// ("addr;addr;addr count" per line, innermost frame first flipped to
// outermost-first per flamegraph convention), the common input format
// for external flamegraph renderers (spec §4.5 "streams (stack,
// count) tuples to the external symbolizer/renderer").
func WriteFolded(w io.Writer, stacks []aggregate.ResolvedStack) error {
	for _, rs := range stacks {
		frames := make([]string, len(rs.Stack))
		for i, addr := range rs.Stack {
			// Reverse so the line reads outermost-caller first, like
			// standard folded-stack output.
			frames[len(rs.Stack)-1-i] = fmt.Sprintf("0x%x", addr)
		}
		if _, err := fmt.Fprintf(w, "%s %d\n", strings.Join(frames, ";"), rs.Count); err != nil {
			return err
		}
	}
	return nil
}

// timeNanosStamp is report.go's single seam for the profile timestamp:
// it returns the current time, read when WritePprof builds the
// profile (at report time, not at collection start).
func timeNanosStamp() int64 {
	return time.Now().UnixNano()
}
