// Package team keeps per-team metadata, including overrides for the
// snapshot chunking limits applied at ingest time.
package team

import (
	"encoding/binary"
	"encoding/json"
	"time"

	pebblestore "github.com/rzbill/replay/internal/storage/pebble"
)

// Meta holds team metadata and optional limit overrides. Zero overrides mean
// "use the configured defaults".
type Meta struct {
	TeamID      int64 `json:"team_id"`
	CreatedAtMs int64 `json:"createdAtMs"`
	// BatchSize overrides the maximum events per chunk group.
	BatchSize int `json:"batchSize,omitempty"`
	// MaxChunkPayload overrides the stored bytes per chunk row.
	MaxChunkPayload int `json:"maxChunkPayload,omitempty"`
}

var teamMetaPrefix = []byte("team/")

func teamMetaKey(id int64) []byte {
	k := make([]byte, 0, len(teamMetaPrefix)+8)
	k = append(k, teamMetaPrefix...)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return append(k, b[:]...)
}

// Ensure creates a team meta record if absent, returning the effective meta.
// Idempotent: returns the existing record when already present.
func Ensure(db *pebblestore.DB, id int64) (Meta, error) {
	key := teamMetaKey(id)
	if b, err := db.Get(key); err == nil && len(b) > 0 {
		var m Meta
		if err := json.Unmarshal(b, &m); err == nil {
			return m, nil
		}
		// fall through to rewrite if corrupted
	}
	m := Meta{TeamID: id, CreatedAtMs: time.Now().UnixMilli()}
	bytes, err := json.Marshal(m)
	if err != nil {
		return Meta{}, err
	}
	if err := db.Set(key, bytes); err != nil {
		return Meta{}, err
	}
	return m, nil
}

// SetLimits stores limit overrides for a team.
func SetLimits(db *pebblestore.DB, id int64, batchSize, maxChunkPayload int) (Meta, error) {
	m, err := Ensure(db, id)
	if err != nil {
		return Meta{}, err
	}
	m.BatchSize = batchSize
	m.MaxChunkPayload = maxChunkPayload
	bytes, err := json.Marshal(m)
	if err != nil {
		return Meta{}, err
	}
	if err := db.Set(teamMetaKey(id), bytes); err != nil {
		return Meta{}, err
	}
	return m, nil
}
