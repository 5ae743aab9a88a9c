package shard

import "errors"

var (
	// ErrShardsExhausted means every shard (up to types.MaxShards) is
	// full and the executable's remaining rows have nowhere to go.
	ErrShardsExhausted = errors.New("shard: all shards exhausted")

	// ErrTooManyChunks means an executable's rows would need more than
	// types.MaxChunksPerExecutable chunks to place.
	ErrTooManyChunks = errors.New("shard: executable needs too many chunks")

	// ErrEmptyRows means Publish was called with no rows.
	ErrEmptyRows = errors.New("shard: no rows to publish")
)
