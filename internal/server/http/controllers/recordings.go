package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rzbill/replay/internal/runtime"
	recordingsvc "github.com/rzbill/replay/internal/services/recordings"
	"github.com/rzbill/replay/internal/snapshot"
)

// RecordingsController handles session recording HTTP endpoints: snapshot
// ingest and paginated snapshot retrieval.
type RecordingsController struct {
	rt  *runtime.Runtime
	svc *recordingsvc.Service
}

// NewRecordingsController creates a new recordings controller.
func NewRecordingsController(rt *runtime.Runtime, svc *recordingsvc.Service) *RecordingsController {
	return &RecordingsController{rt: rt, svc: svc}
}

// RegisterRoutes registers recording routes with the given mux.
func (c *RecordingsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/session_recordings/snapshots", c.handleGetSnapshots)
	mux.HandleFunc("/api/snapshots", c.handleIngest)
}

// snapshotsResp is the page envelope. Next is an absolute URL for the
// following page, or null when the current page was not full.
type snapshotsResp struct {
	Snapshots []map[string]interface{} `json:"snapshots"`
	Next      *string                  `json:"next"`
}

// handleGetSnapshots returns one page of reconstructed snapshot events.
//
// Query params: session_recording_id (required), team_id, limit, offset,
// filter. The limit counts chunk groups, so a full page can carry more
// events than limit.
func (c *RecordingsController) handleGetSnapshots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	q := r.URL.Query()
	sessionID := q.Get("session_recording_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_recording_id is required")
		return
	}
	limit := parseLimit(q.Get("limit"), c.rt.Config().DefaultPageLimit)
	offset := parseOffset(q.Get("offset"))

	page, err := c.svc.Page(r.Context(), recordingsvc.PageRequest{
		TeamID:     parseInt64(q.Get("team_id")),
		SessionID:  sessionID,
		Limit:      limit,
		Offset:     offset,
		FilterExpr: q.Get("filter"),
	})
	if err != nil {
		if errors.Is(err, recordingsvc.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load snapshots")
		return
	}

	resp := snapshotsResp{Snapshots: page.Snapshots}
	if page.Next != nil {
		next := nextPageURL(r, page.Next.Limit, page.Next.Offset)
		resp.Next = &next
	}
	writeJSON(w, resp)
}

// nextPageURL re-serializes the request URL with pagination advanced.
func nextPageURL(r *http.Request, limit, offset int) string {
	q := r.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	return u.String()
}

// ingestReq is the snapshot ingest body. Each snapshot is the raw event
// payload map; its "timestamp" field orders the event within the session.
type ingestReq struct {
	TeamID     int64                    `json:"team_id"`
	DistinctID string                   `json:"distinct_id"`
	SessionID  string                   `json:"session_id"`
	Snapshots  []map[string]interface{} `json:"snapshots"`
}

// handleIngest accepts a batch of snapshot events for one session.
func (c *RecordingsController) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req ingestReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	events := make([]snapshot.Event, 0, len(req.Snapshots))
	for _, data := range req.Snapshots {
		var ts int64
		if v, ok := data["timestamp"].(float64); ok {
			ts = int64(v)
		}
		events = append(events, snapshot.Event{
			TeamID:     req.TeamID,
			DistinctID: req.DistinctID,
			SessionID:  req.SessionID,
			Timestamp:  ts,
			Data:       data,
		})
	}
	if err := c.svc.Ingest(r.Context(), events); err != nil {
		if errors.Is(err, recordingsvc.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to ingest snapshots")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
