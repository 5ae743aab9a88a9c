//go:build linux

package proctrack

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmarler/lightswitch/pkg/shard"
	"github.com/gmarler/lightswitch/pkg/types"
)

func TestBuildSkipsUnpublishedExecutables(t *testing.T) {
	reg := NewRegistry()
	info, err := Build(os.Getpid(), reg)
	require.NoError(t, err)
	// Nothing has been published yet, so every file-backed mapping is
	// skipped and none are registered.
	assert.Empty(t, info.Mappings)
}

func TestBuildIncludesPublishedExecutables(t *testing.T) {
	raw, err := ReadMaps(os.Getpid())
	require.NoError(t, err)

	reg := NewRegistry()
	var withID int
	for _, m := range raw {
		if m.ExecutableID != "" {
			withID++
			reg.Publish(m.ExecutableID, []shard.Chunk{{LowPC: m.LowPC, HighPC: m.HighPC}})
		}
	}
	if withID == 0 {
		t.Skip("no file-backed executable mappings resolvable in this environment")
	}

	info, err := Build(os.Getpid(), reg)
	require.NoError(t, err)
	assert.Len(t, info.Mappings, withID)
}

func TestMappingRecordEncodeRoundTripsFields(t *testing.T) {
	m := MappingRecord{LowPC: 0x1000, HighPC: 0x2000, FileOffset: 0x10, ExecutableHash: 0xdeadbeef}
	b := m.Encode()
	assert.Equal(t, byte(0x00), b[0])
	assert.Equal(t, byte(0x00), b[0+8]) // HighPC low byte
}

func TestProcessInfoEncodeLayout(t *testing.T) {
	info := ProcessInfo{
		IsJIT:    true,
		Mappings: []MappingRecord{{LowPC: 1, HighPC: 2, FileOffset: 3, ExecutableHash: 4}},
	}
	b := info.Encode()
	assert.Equal(t, types.ProcessInfoRecordSize, len(b))
	assert.Equal(t, byte(1), b[0], "is_jit flag")
	assert.Equal(t, byte(1), b[4], "len field")
}

func TestExecutableHashIsStableAndDistinguishesIDs(t *testing.T) {
	a := ExecutableHash("1:2@3")
	b := ExecutableHash("1:2@3")
	c := ExecutableHash("1:2@4")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
