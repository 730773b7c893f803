package chunkstore

import (
	"context"
	"errors"

	"github.com/rzbill/replay/internal/snapshot"
)

// ErrUnavailable reports a backing store I/O failure. Callers may retry; no
// partial page is ever returned alongside it.
var ErrUnavailable = errors.New("chunkstore: store unavailable")

// Store is the adapter contract consumed by the recordings service.
type Store interface {
	// Write persists the chunks durably. Chunks are immutable once written.
	Write(ctx context.Context, chunks []snapshot.Chunk) error
	// Read returns chunk rows for (teamID, sessionID) ordered by timestamp
	// ascending, covering at most groupLimit distinct groups after skipping
	// groupOffset groups. groupLimit <= 0 means unbounded. An unknown session
	// yields an empty slice, not an error.
	Read(ctx context.Context, teamID int64, sessionID string, groupLimit, groupOffset int) ([]snapshot.Chunk, error)
}
