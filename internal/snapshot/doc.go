// Package snapshot implements Replay's chunked snapshot pipeline.
//
// # Overview
//
// Producers hand the pipeline an ordered batch of session-replay events. The
// batch is serialized to canonical JSON, gzip-compressed, base64-encoded, and
// the resulting text is sliced into size-bounded Chunk records suitable for a
// row-oriented store:
//
//	chunker := snapshot.NewChunker(batchSize, maxChunkPayload)
//	chunks, _ := chunker.Split(events)
//	// persist chunks via a chunkstore.Store
//
// Reads invert the pipeline. Chunks are grouped by GroupID, verified for
// index completeness, concatenated in index order and decoded back into the
// original events:
//
//	events, report := snapshot.Reassemble(chunks)
//
// Incomplete groups (a write still in flight, or retention partially applied)
// are skipped, not errors. Decode failures are classified so callers can log
// and count them; the offending group is dropped and the rest of the page
// survives.
//
// Invariants
//
//   - For one GroupID, ChunkIndex values are exactly {0..ChunkCount-1}.
//   - Concatenating payloads in index order, base64-decoding, gunzipping and
//     parsing yields the original serialized batch byte for byte.
//   - Two groups never share chunks; GroupID is unique per Split invocation.
//   - Chunks are immutable once written.
package snapshot
