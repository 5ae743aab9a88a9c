package shard

// Chunk describes one contiguous range of an executable's rows stored
// inside one shard (spec §3). LowIndex/HighIndex are absolute row
// indices within that shard's arena; HighIndex is exclusive.
type Chunk struct {
	LowPC      uint64
	HighPC     uint64
	ShardIndex uint32
	LowIndex   uint32
	HighIndex  uint32
}

// Encode packs a Chunk into the 5 x u64 little-endian ABI record of
// spec §6.
func (c Chunk) Encode() [40]byte {
	var b [40]byte
	putU64(b[0:8], c.LowPC)
	putU64(b[8:16], c.HighPC)
	putU64(b[16:24], uint64(c.ShardIndex))
	putU64(b[24:32], uint64(c.LowIndex))
	putU64(b[32:40], uint64(c.HighIndex))
	return b
}

// DecodeChunk unpacks a 40-byte chunk ABI record.
func DecodeChunk(b []byte) Chunk {
	return Chunk{
		LowPC:      getU64(b[0:8]),
		HighPC:     getU64(b[8:16]),
		ShardIndex: uint32(getU64(b[16:24])),
		LowIndex:   uint32(getU64(b[24:32])),
		HighIndex:  uint32(getU64(b[32:40])),
	}
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getU64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
