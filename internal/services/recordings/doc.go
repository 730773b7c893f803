// Package recordings implements the session-recording facade consumed by the
// HTTP transport: chunked ingest of snapshot events and group-paginated
// reconstruction of a session's event sequence.
//
// Example:
//
//	svc := recordings.New(rt)
//	_ = svc.Ingest(ctx, events)
//	page, _ := svc.Page(ctx, recordings.PageRequest{
//	    TeamID:    1,
//	    SessionID: "abc",
//	    Limit:     20,
//	})
//	// page.Snapshots holds the recovered display records; page.Next carries
//	// the continuation when the page was full.
//
// Chunk-level trouble never fails a page: incomplete groups are skipped
// (they may complete on a later read) and corrupt groups are dropped and
// counted. Only store I/O errors propagate, wrapped as retryable.
package recordings
