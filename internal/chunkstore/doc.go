// Package chunkstore persists snapshot chunks in a row-oriented store and
// serves ordered, group-paginated range reads over them.
//
// # Overview
//
// The Store contract is the narrow seam between the snapshot pipeline and
// durable storage:
//
//	store.Write(ctx, chunks)
//	rows, err := store.Read(ctx, teamID, sessionID, groupLimit, groupOffset)
//
// Read returns rows ordered by (timestamp, group id, chunk index) covering at
// most groupLimit distinct groups after skipping groupOffset groups.
// Pagination counts groups, the pre-expansion storage unit, because a single
// group may expand to many reconstructed events.
//
// Two backends are provided. The Pebble backend keys rows as
//
//	rec/{team_be8}/{session}/{ts_be8}/{group}/{idx_be4}
//
// so one lexicographic scan yields the read order, and frames row values with
// a crc32c trailer so row corruption is detected at read time. The Postgres
// backend maps the same contract onto a session_recording_chunks table.
//
// Store failures are retryable and wrapped with ErrUnavailable; they are the
// only errors that propagate to callers as hard failures.
package chunkstore
