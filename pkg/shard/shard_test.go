package shard

import (
	"testing"

	"github.com/gmarler/lightswitch/pkg/types"
)

func rowsN(n int, base uint64) []types.Row {
	rows := make([]types.Row, n)
	for i := range rows {
		rows[i] = types.Row{PC: base + uint64(i), CFAType: types.CFARSP, CFAOffset: 8}
	}
	return rows
}

func TestPublishSingleChunkWhenItFits(t *testing.T) {
	a := NewAllocator(types.MaxShards)
	chunks, err := a.Publish(rowsN(10, 0x1000))
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].LowPC != 0x1000 || chunks[0].LowIndex != 0 || chunks[0].HighIndex != 10 {
		t.Errorf("chunk = %+v", chunks[0])
	}
}

func TestPublishSplitsAcrossShardsWhenExecutableExceedsCapacity(t *testing.T) {
	a := NewAllocator(3)
	// Fill shard 0 almost to capacity with a first executable.
	_, err := a.Publish(rowsN(types.ShardCapacityRows-5, 0x1000))
	if err != nil {
		t.Fatalf("first publish: %v", err)
	}

	// Second executable needs 20 rows but only 5 remain in shard 0.
	chunks, err := a.Publish(rowsN(20, 0x9000))
	if err != nil {
		t.Fatalf("second publish: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2: %+v", len(chunks), chunks)
	}
	if chunks[0].ShardIndex != 0 || chunks[0].HighIndex-chunks[0].LowIndex != 5 {
		t.Errorf("chunk0 = %+v", chunks[0])
	}
	if chunks[1].ShardIndex != 1 || chunks[1].HighIndex-chunks[1].LowIndex != 15 {
		t.Errorf("chunk1 = %+v", chunks[1])
	}
}

func TestPublishFailsWhenShardsExhausted(t *testing.T) {
	a := NewAllocator(1)
	_, err := a.Publish(rowsN(types.ShardCapacityRows, 0x1000))
	if err != nil {
		t.Fatalf("first publish should fit exactly: %v", err)
	}
	if _, err := a.Publish(rowsN(1, 0x9000)); err == nil {
		t.Fatal("expected ErrShardsExhausted")
	}
}

func TestPublishRejectsEmptyRows(t *testing.T) {
	a := NewAllocator(types.MaxShards)
	if _, err := a.Publish(nil); err != ErrEmptyRows {
		t.Fatalf("Publish(nil) err = %v, want ErrEmptyRows", err)
	}
}

func TestChunkEncodeDecodeRoundTrips(t *testing.T) {
	c := Chunk{LowPC: 0x1000, HighPC: 0x2000, ShardIndex: 3, LowIndex: 10, HighIndex: 20}
	b := c.Encode()
	got := DecodeChunk(b[:])
	if got != c {
		t.Errorf("DecodeChunk(Encode(c)) = %+v, want %+v", got, c)
	}
}

func TestRowAtResolvesPublishedRows(t *testing.T) {
	a := NewAllocator(types.MaxShards)
	rows := rowsN(5, 0x2000)
	chunks, err := a.Publish(rows)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	c := chunks[0]
	got, ok := a.RowAt(c.ShardIndex, c.LowIndex)
	if !ok || got.PC != 0x2000 {
		t.Errorf("RowAt(first) = %+v, %v", got, ok)
	}
}
