package snapshot

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrIncompleteGroup reports a chunk group with missing or inconsistent
// indices at read time. Recoverable: the group may complete on a later read.
var ErrIncompleteGroup = errors.New("snapshot: incomplete chunk group")

// GroupError describes why one group could not be reassembled.
type GroupError struct {
	GroupID string
	Err     error
}

func (e GroupError) Error() string {
	return fmt.Sprintf("group %s: %v", e.GroupID, e.Err)
}

func (e GroupError) Unwrap() error { return e.Err }

// Reassemble recovers the ordered event sequence from a mixed set of chunks,
// typically the rows returned by one range read. Groups that cannot be
// reassembled (incomplete, or failing decode) are dropped and reported;
// everything else survives. Output is ordered by each group's representative
// timestamp with intra-group arrival order preserved.
func Reassemble(chunks []Chunk) ([]Event, []GroupError) {
	if len(chunks) == 0 {
		return nil, nil
	}

	byGroup := make(map[string][]Chunk)
	order := make([]string, 0)
	for _, c := range chunks {
		if _, seen := byGroup[c.GroupID]; !seen {
			order = append(order, c.GroupID)
		}
		byGroup[c.GroupID] = append(byGroup[c.GroupID], c)
	}

	// Deterministic group order: representative timestamp, then group id so
	// repeated reads of the same rows return identical pages.
	sort.SliceStable(order, func(i, j int) bool {
		a, b := byGroup[order[i]][0], byGroup[order[j]][0]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return a.GroupID < b.GroupID
	})

	var events []Event
	var failures []GroupError
	for _, gid := range order {
		batch, err := reassembleGroup(byGroup[gid])
		if err != nil {
			failures = append(failures, GroupError{GroupID: gid, Err: err})
			continue
		}
		events = append(events, batch...)
	}
	return events, failures
}

// reassembleGroup verifies index completeness, concatenates payloads in
// index order and decodes the batch.
func reassembleGroup(chunks []Chunk) ([]Event, error) {
	count := chunks[0].ChunkCount
	if count <= 0 || len(chunks) != count {
		return nil, ErrIncompleteGroup
	}
	slots := make([]*Chunk, count)
	for i := range chunks {
		c := &chunks[i]
		if c.ChunkCount != count || c.ChunkIndex < 0 || c.ChunkIndex >= count {
			return nil, ErrIncompleteGroup
		}
		if slots[c.ChunkIndex] != nil {
			return nil, ErrIncompleteGroup
		}
		slots[c.ChunkIndex] = c
	}

	var sb strings.Builder
	for _, c := range slots {
		sb.WriteString(c.Payload)
	}
	return Decode(sb.String())
}
