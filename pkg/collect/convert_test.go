//go:build linux

package collect

import (
	"testing"

	"github.com/gmarler/lightswitch/pkg/proctrack"
	"github.com/gmarler/lightswitch/pkg/shard"
	"github.com/gmarler/lightswitch/pkg/types"
)

func TestToUnwindProcessInfoResolvesPublishedChunks(t *testing.T) {
	reg := proctrack.NewRegistry()
	chunks := []shard.Chunk{{ShardIndex: 0, LowIndex: 0, HighIndex: 1}}
	reg.Publish("exe-a", chunks)

	mappings := []proctrack.Mapping{
		{LowPC: 0x1000, HighPC: 0x2000, FileOffset: 0, ExecutableID: "exe-a", Type: types.MappingFile},
		{LowPC: 0x3000, HighPC: 0x4000, FileOffset: 0, ExecutableID: "", Type: types.MappingAnonymous},
	}

	info := toUnwindProcessInfo(mappings, reg)

	if len(info.Mappings) != 2 {
		t.Fatalf("len(Mappings) = %d, want 2", len(info.Mappings))
	}
	if len(info.Mappings[0].Chunks) != 1 {
		t.Errorf("published mapping has no resolved chunks: %+v", info.Mappings[0])
	}
	if len(info.Mappings[1].Chunks) != 0 {
		t.Errorf("unpublished mapping unexpectedly resolved chunks: %+v", info.Mappings[1])
	}
}

func TestToUnwindProcessInfoSetsJITFlagFromAnyMapping(t *testing.T) {
	reg := proctrack.NewRegistry()
	mappings := []proctrack.Mapping{
		{LowPC: 0x1000, HighPC: 0x2000, Type: types.MappingFile},
		{LowPC: 0x2000, HighPC: 0x3000, Type: types.MappingJIT},
	}

	info := toUnwindProcessInfo(mappings, reg)

	if !info.IsJIT {
		t.Error("IsJIT = false, want true when any mapping is JIT")
	}
}

func TestToUnwindProcessInfoComputesLoadAddress(t *testing.T) {
	reg := proctrack.NewRegistry()
	mappings := []proctrack.Mapping{
		{LowPC: 0x5000, HighPC: 0x6000, FileOffset: 0x1000, Type: types.MappingFile},
	}

	info := toUnwindProcessInfo(mappings, reg)

	if got, want := info.Mappings[0].LoadAddress, uint64(0x4000); got != want {
		t.Errorf("LoadAddress = %#x, want %#x", got, want)
	}
}
