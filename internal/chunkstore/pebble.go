package chunkstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/rzbill/replay/internal/snapshot"
	pebblestore "github.com/rzbill/replay/internal/storage/pebble"
)

// rowMeta is the framed header of a Pebble chunk row. Identity fields that
// already live in the key are not repeated here.
type rowMeta struct {
	DistinctID string `json:"distinct_id"`
	ChunkCount int    `json:"chunk_count"`
}

// PebbleStore keeps chunk rows in the embedded Pebble database.
type PebbleStore struct {
	db *pebblestore.DB
}

// NewPebble builds a Store over an open Pebble wrapper.
func NewPebble(db *pebblestore.DB) *PebbleStore {
	return &PebbleStore{db: db}
}

// Write persists all chunks as one atomic batch.
func (s *PebbleStore) Write(ctx context.Context, chunks []snapshot.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	b := s.db.NewBatch()
	defer b.Close()
	for _, c := range chunks {
		meta, err := json.Marshal(rowMeta{DistinctID: c.DistinctID, ChunkCount: c.ChunkCount})
		if err != nil {
			return fmt.Errorf("chunkstore: marshal row meta: %w", err)
		}
		key := KeyChunk(c.TeamID, c.SessionID, c.Timestamp, c.GroupID, c.ChunkIndex)
		if err := b.Set(key, EncodeRow(meta, []byte(c.Payload)), nil); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Read scans the session prefix in key order, which is (timestamp, group,
// index) order, windowing on distinct groups. Rows failing the CRC check are
// skipped; their group then reads as incomplete downstream.
func (s *PebbleStore) Read(ctx context.Context, teamID int64, sessionID string, groupLimit, groupOffset int) ([]snapshot.Chunk, error) {
	prefix := KeySessionPrefix(teamID, sessionID)
	upper := append(append([]byte(nil), prefix...), 0xff)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upper})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer iter.Close()

	var out []snapshot.Chunk
	seenGroups := 0
	currentGroup := ""
	collecting := groupOffset <= 0
	for ok := iter.First(); ok; ok = iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gid := keyGroupID(iter.Key(), len(prefix))
		if gid == "" {
			continue
		}
		if gid != currentGroup {
			currentGroup = gid
			seenGroups++
			collecting = seenGroups > groupOffset
			if groupLimit > 0 && seenGroups > groupOffset+groupLimit {
				break
			}
		}
		if !collecting {
			continue
		}
		header, payload, rowOK := DecodeRow(iter.Value())
		if !rowOK {
			continue
		}
		var meta rowMeta
		if err := json.Unmarshal(header, &meta); err != nil {
			continue
		}
		out = append(out, snapshot.Chunk{
			TeamID:     teamID,
			DistinctID: meta.DistinctID,
			SessionID:  sessionID,
			Timestamp:  keyTimestamp(iter.Key(), len(prefix)),
			GroupID:    gid,
			ChunkIndex: keyChunkIndex(iter.Key()),
			ChunkCount: meta.ChunkCount,
			Payload:    string(payload),
		})
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out, nil
}
