package snapshot

import (
	"errors"

	"github.com/google/uuid"
)

// Chunker splits ordered event batches into storable chunk groups.
type Chunker struct {
	// batchSize is the maximum number of events compressed together into one
	// group.
	batchSize int
	// maxChunkPayload bounds the stored payload bytes per chunk. It stands in
	// for the backing store's row/field size limit.
	maxChunkPayload int
	// newGroupID yields the correlation key shared by sibling chunks. Random
	// so that interleaved writers never intermix groups.
	newGroupID func() string
}

// NewChunker builds a Chunker. Both limits must be positive; Split reports
// a configuration error otherwise.
func NewChunker(batchSize, maxChunkPayload int) Chunker {
	return Chunker{
		batchSize:       batchSize,
		maxChunkPayload: maxChunkPayload,
		newGroupID:      uuid.NewString,
	}
}

var errChunkerConfig = errors.New("snapshot: chunker requires positive batch size and chunk payload limits")

// Split partitions events into consecutive groups of at most batchSize,
// encodes each group, and slices the encoded text into chunks of at most
// maxChunkPayload bytes. Order is preserved throughout. An empty input
// yields no chunks.
func (c Chunker) Split(events []Event) ([]Chunk, error) {
	if c.batchSize <= 0 || c.maxChunkPayload <= 0 {
		return nil, errChunkerConfig
	}
	if len(events) == 0 {
		return nil, nil
	}

	var out []Chunk
	for start := 0; start < len(events); start += c.batchSize {
		end := start + c.batchSize
		if end > len(events) {
			end = len(events)
		}
		group := events[start:end]
		encoded, err := Encode(group)
		if err != nil {
			return nil, err
		}
		out = append(out, c.slice(group[0], encoded)...)
	}
	return out, nil
}

// slice cuts one group's encoded text into chunk records tagged with a fresh
// group id. first supplies the group-level identity fields.
func (c Chunker) slice(first Event, encoded string) []Chunk {
	count := (len(encoded) + c.maxChunkPayload - 1) / c.maxChunkPayload
	if count == 0 {
		count = 1
	}
	chunks := make([]Chunk, 0, count)
	groupID := c.newGroupID()
	for i := 0; i < count; i++ {
		lo := i * c.maxChunkPayload
		hi := lo + c.maxChunkPayload
		if hi > len(encoded) {
			hi = len(encoded)
		}
		chunks = append(chunks, Chunk{
			TeamID:     first.TeamID,
			DistinctID: first.DistinctID,
			SessionID:  first.SessionID,
			Timestamp:  first.Timestamp,
			GroupID:    groupID,
			ChunkIndex: i,
			ChunkCount: count,
			Payload:    encoded[lo:hi],
		})
	}
	return chunks
}
