package snapshot

// Event is one replay-format record describing a DOM mutation or state
// capture within a session. Data is an opaque tree carrying at minimum a
// numeric "type" discriminant; the full replay grammar is deliberately not
// modeled here.
type Event struct {
	TeamID     int64  `json:"team_id"`
	DistinctID string `json:"distinct_id"`
	SessionID  string `json:"session_id"`
	// Timestamp is the ordering key in unix seconds. Events sharing a
	// timestamp keep their arrival order within the originating batch.
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Type returns the numeric discriminant from the payload, or -1 when absent.
func (e Event) Type() int {
	switch v := e.Data["type"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return -1
}

// Chunk is one storable, size-bounded slice of a group's compressed text.
type Chunk struct {
	TeamID     int64  `json:"team_id"`
	DistinctID string `json:"distinct_id"`
	SessionID  string `json:"session_id"`
	// Timestamp is the timestamp of the group's first event; it orders groups
	// in range reads.
	Timestamp int64 `json:"timestamp"`
	// GroupID joins sibling chunks produced by one Split invocation. It is
	// the partition key for reassembly and is never inferred from timestamps.
	GroupID    string `json:"group_id"`
	ChunkIndex int    `json:"chunk_index"`
	ChunkCount int    `json:"chunk_count"`
	// Payload is a contiguous substring of the group's compressed encoding.
	Payload string `json:"payload"`
}
