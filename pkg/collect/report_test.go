package collect

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/pprof/profile"

	"github.com/gmarler/lightswitch/pkg/aggregate"
)

func TestWriteFoldedOrdersFramesOutermostFirst(t *testing.T) {
	stacks := []aggregate.ResolvedStack{
		{Stack: []uint64{0x3000, 0x2000, 0x1000}, Count: 7},
	}

	var buf bytes.Buffer
	if err := WriteFolded(&buf, stacks); err != nil {
		t.Fatalf("WriteFolded: %v", err)
	}

	got := strings.TrimSpace(buf.String())
	want := "0x1000;0x2000;0x3000 7"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteFoldedEmitsOneLinePerStack(t *testing.T) {
	stacks := []aggregate.ResolvedStack{
		{Stack: []uint64{0x1000}, Count: 1},
		{Stack: []uint64{0x2000}, Count: 2},
	}

	var buf bytes.Buffer
	if err := WriteFolded(&buf, stacks); err != nil {
		t.Fatalf("WriteFolded: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
}

func TestWritePprofProducesNonEmptyOutput(t *testing.T) {
	stacks := []aggregate.ResolvedStack{
		{Stack: []uint64{0x1000, 0x2000}, Count: 3},
		{Stack: []uint64{0x2000, 0x3000}, Count: 1},
	}

	var buf bytes.Buffer
	if err := WritePprof(&buf, stacks, 10*time.Second); err != nil {
		t.Fatalf("WritePprof: %v", err)
	}

	if buf.Len() == 0 {
		t.Error("WritePprof wrote no bytes")
	}
}

func TestWritePprofDedupesSharedAddressesAcrossSamples(t *testing.T) {
	// Both stacks share address 0x2000; the writer should not explode
	// the location table linearly with sample count.
	stacks := []aggregate.ResolvedStack{
		{Stack: []uint64{0x1000, 0x2000}, Count: 1},
		{Stack: []uint64{0x2000, 0x3000}, Count: 1},
	}

	var buf bytes.Buffer
	if err := WritePprof(&buf, stacks, time.Second); err != nil {
		t.Fatalf("WritePprof: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("WritePprof wrote no bytes")
	}
	prof, err := profile.Parse(&buf)
	if err != nil {
		t.Fatalf("profile.Parse: %v", err)
	}
	if len(prof.Location) != 3 {
		t.Errorf("len(Location) = %d, want 3 (one per distinct address)", len(prof.Location))
	}
}
