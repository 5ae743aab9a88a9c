// Package shard packs per-executable unwind tables produced by pkg/cfi
// into a fixed set of shared shards visible to the kernel-side
// unwinder, splitting any single executable's table across shards as
// needed (spec §4.2).
//
// Overview
//
//   - NewAllocator(maxShards int) creates an allocator with no shards
//     yet allocated; shards are created lazily up to maxShards as rows
//     are published.
//
//   - Publish(rows []types.Row) ([]Chunk, error) appends rows to the
//     current shard (or splits across shards and,
//     when necessary, up to types.MaxChunksPerExecutable chunks) and
//     returns the ordered chunk list the caller hands to
//     pkg/proctrack for inclusion in a process_info_t.
//
//   - Capacity exhaustion (either row or chunk count) is a hard,
//     observable failure (ErrShardsExhausted / ErrTooManyChunks); there
//     is no eviction policy here, matching the spec's explicit Open
//     Question on eviction under heavy process churn.
//
// Package import path: github.com/gmarler/lightswitch/pkg/shard
package shard
