package proctrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmarler/lightswitch/pkg/shard"
)

func TestRegisterMappingRequiresPublishFirst(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.RegisterMapping("1:2@3")
	assert.ErrorIs(t, err, ErrNotPublished)
}

func TestPublishThenRegisterMappingSucceeds(t *testing.T) {
	reg := NewRegistry()
	chunks := []shard.Chunk{{LowPC: 0x1000, HighPC: 0x2000}}
	reg.Publish("1:2@3", chunks)

	got, err := reg.RegisterMapping("1:2@3")
	require.NoError(t, err)
	assert.Equal(t, chunks, got)
	assert.Equal(t, 1, reg.RefCount("1:2@3"))
}

func TestReleaseDecrementsRefCount(t *testing.T) {
	reg := NewRegistry()
	reg.Publish("1:2@3", []shard.Chunk{{}})
	_, _ = reg.RegisterMapping("1:2@3")
	_, _ = reg.RegisterMapping("1:2@3")
	assert.Equal(t, 2, reg.RefCount("1:2@3"))

	reg.Release("1:2@3")
	assert.Equal(t, 1, reg.RefCount("1:2@3"))

	reg.Release("1:2@3")
	reg.Release("1:2@3") // releasing past zero must not underflow
	assert.Equal(t, 0, reg.RefCount("1:2@3"))
}

func TestRepublishReplacesChunksWithoutResettingRefCount(t *testing.T) {
	reg := NewRegistry()
	reg.Publish("1:2@3", []shard.Chunk{{LowPC: 1}})
	_, _ = reg.RegisterMapping("1:2@3")

	reg.Publish("1:2@3", []shard.Chunk{{LowPC: 2}})
	chunks, ok := reg.Chunks("1:2@3")
	require.True(t, ok)
	assert.Equal(t, uint64(2), chunks[0].LowPC)
	assert.Equal(t, 1, reg.RefCount("1:2@3"))
}
