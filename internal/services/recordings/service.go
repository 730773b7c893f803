package recordings

import (
	"context"
	"errors"
	"fmt"

	"github.com/rzbill/replay/internal/chunkstore"
	"github.com/rzbill/replay/internal/runtime"
	"github.com/rzbill/replay/internal/snapshot"
	logpkg "github.com/rzbill/replay/pkg/log"
)

// ErrBadRequest reports invalid ingest or query input.
var ErrBadRequest = errors.New("recordings: bad request")

// Service provides chunked ingest and paginated reconstruction of session
// recordings. Stateless: every operation takes its identifiers explicitly,
// so concurrent ingest and query need no in-process coordination.
type Service struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
}

// New returns a Service using a default logger.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, nil)
}

// NewWithLogger constructs the service with an injected logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("recordings"))
	}
	return &Service{rt: rt, logger: logger}
}

// Ingest folds an ordered batch of events for one session into chunk groups
// and persists them. All events must share a team and session id.
func (s *Service) Ingest(ctx context.Context, events []snapshot.Event) error {
	if len(events) == 0 {
		return nil
	}
	teamID, sessionID := events[0].TeamID, events[0].SessionID
	if sessionID == "" {
		return fmt.Errorf("%w: missing session id", ErrBadRequest)
	}
	if len(sessionID) > chunkstore.MaxSessionIDLen {
		return fmt.Errorf("%w: session id too long", ErrBadRequest)
	}
	for _, e := range events[1:] {
		if e.TeamID != teamID || e.SessionID != sessionID {
			return fmt.Errorf("%w: mixed team/session in one batch", ErrBadRequest)
		}
	}

	batchSize, maxPayload, err := s.effectiveLimits(teamID)
	if err != nil {
		return err
	}
	chunks, err := snapshot.NewChunker(batchSize, maxPayload).Split(events)
	if err != nil {
		return err
	}
	if err := s.rt.Store().Write(ctx, chunks); err != nil {
		return err
	}

	m := s.rt.Metrics()
	m.SnapshotsIngested.Add(float64(len(events)))
	m.ChunksWritten.Add(float64(len(chunks)))
	s.logger.Debug("ingested snapshot batch",
		logpkg.Int64("team_id", teamID),
		logpkg.Str("session_id", sessionID),
		logpkg.Int("events", len(events)),
		logpkg.Int("chunks", len(chunks)),
	)
	return nil
}

// effectiveLimits resolves chunking limits: team overrides win over the
// configured defaults.
func (s *Service) effectiveLimits(teamID int64) (batchSize, maxPayload int, err error) {
	cfg := s.rt.Config().Snapshot
	batchSize, maxPayload = cfg.BatchSize, cfg.MaxChunkPayload
	meta, err := s.rt.EnsureTeam(teamID)
	if err != nil {
		return 0, 0, err
	}
	if meta.BatchSize > 0 {
		batchSize = meta.BatchSize
	}
	if meta.MaxChunkPayload > 0 {
		maxPayload = meta.MaxChunkPayload
	}
	return batchSize, maxPayload, nil
}

// Page reconstructs one page of a session. Pagination counts chunk groups:
// the continuation is set only when exactly Limit distinct groups were
// retrieved, signaling that more may exist. An unknown session is not an
// error and yields an empty page.
func (s *Service) Page(ctx context.Context, req PageRequest) (Page, error) {
	limit := req.Limit
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	filter, err := newCELFilter(req.FilterExpr)
	if err != nil {
		return Page{}, fmt.Errorf("%w: invalid filter: %v", ErrBadRequest, err)
	}

	rows, err := s.rt.Store().Read(ctx, req.TeamID, req.SessionID, limit, offset)
	if err != nil {
		return Page{}, err
	}

	events, failures := snapshot.Reassemble(rows)
	m := s.rt.Metrics()
	for _, f := range failures {
		if errors.Is(f, snapshot.ErrIncompleteGroup) {
			m.IncompleteGroups.Inc()
			continue
		}
		m.DecodeFailures.Inc()
		s.logger.Warn("dropping undecodable chunk group",
			logpkg.Str("session_id", req.SessionID),
			logpkg.Str("group_id", f.GroupID),
			logpkg.Err(f.Err),
		)
	}

	snapshots := make([]map[string]interface{}, 0, len(events))
	for _, e := range events {
		if !filter.Eval(e) {
			continue
		}
		snapshots = append(snapshots, e.Data)
	}

	page := Page{Snapshots: snapshots}
	if limit > 0 && countGroups(rows) == limit {
		page.Next = &Continuation{Limit: limit, Offset: offset + limit}
	}
	m.PagesServed.Inc()
	return page, nil
}

func countGroups(rows []snapshot.Chunk) int {
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		seen[r.GroupID] = struct{}{}
	}
	return len(seen)
}
