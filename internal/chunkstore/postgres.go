package chunkstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/rzbill/replay/internal/snapshot"
)

// PostgresStore maps the Store contract onto a session_recording_chunks
// table. Rows are append-only; retention deletes happen outside this core.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects with the given DSN and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgres wraps an existing database handle.
func NewPostgres(db *sql.DB) *PostgresStore { return &PostgresStore{db: db} }

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error { return s.db.Close() }

// EnsureSchema creates the chunk table when absent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session_recording_chunks (
			team_id     BIGINT NOT NULL,
			distinct_id TEXT   NOT NULL,
			session_id  TEXT   NOT NULL,
			ts          BIGINT NOT NULL,
			group_id    TEXT   NOT NULL,
			chunk_index INT    NOT NULL,
			chunk_count INT    NOT NULL,
			payload     TEXT   NOT NULL,
			PRIMARY KEY (team_id, session_id, ts, group_id, chunk_index)
		)`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Write persists all chunks inside one transaction.
func (s *PostgresStore) Write(ctx context.Context, chunks []snapshot.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO session_recording_chunks
			(team_id, distinct_id, session_id, ts, group_id, chunk_index, chunk_count, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx,
			c.TeamID, c.DistinctID, c.SessionID, c.Timestamp,
			c.GroupID, c.ChunkIndex, c.ChunkCount, c.Payload); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Read selects the rows belonging to a window of distinct groups, ordered by
// (ts, group_id, chunk_index) to mirror the Pebble scan order.
func (s *PostgresStore) Read(ctx context.Context, teamID int64, sessionID string, groupLimit, groupOffset int) ([]snapshot.Chunk, error) {
	query := `
		SELECT team_id, distinct_id, session_id, ts, group_id, chunk_index, chunk_count, payload
		FROM session_recording_chunks
		WHERE team_id = $1 AND session_id = $2 AND group_id IN (
			SELECT group_id FROM (
				SELECT group_id, MIN(ts) AS group_ts
				FROM session_recording_chunks
				WHERE team_id = $1 AND session_id = $2
				GROUP BY group_id
				ORDER BY group_ts, group_id
				LIMIT $3 OFFSET $4
			) grp
		)
		ORDER BY ts, group_id, chunk_index`

	limit := interface{}(nil) // LIMIT NULL means unbounded
	if groupLimit > 0 {
		limit = groupLimit
	}
	if groupOffset < 0 {
		groupOffset = 0
	}
	rows, err := s.db.QueryContext(ctx, query, teamID, sessionID, limit, groupOffset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var out []snapshot.Chunk
	for rows.Next() {
		var c snapshot.Chunk
		if err := rows.Scan(&c.TeamID, &c.DistinctID, &c.SessionID, &c.Timestamp,
			&c.GroupID, &c.ChunkIndex, &c.ChunkCount, &c.Payload); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out, nil
}
