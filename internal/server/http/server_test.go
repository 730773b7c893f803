package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	cfgpkg "github.com/rzbill/replay/internal/config"
	"github.com/rzbill/replay/internal/runtime"
	pebblestore "github.com/rzbill/replay/internal/storage/pebble"
	logpkg "github.com/rzbill/replay/pkg/log"
)

const baseTime = int64(1_600_000_000)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.Export.TokenSecret = "test-secret"
	rt, err := runtime.Open(context.Background(), runtime.Options{
		DataDir:  t.TempDir(),
		Fsync:    pebblestore.FsyncModeAlways,
		Config:   cfg,
		Registry: prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("rt open: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return New(rt, logpkg.NewTestLogger())
}

func doJSON(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func ingestBatch(t *testing.T, s *Server, session string, snapshots []map[string]interface{}) {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/snapshots", map[string]interface{}{
		"team_id":     1,
		"distinct_id": "user",
		"session_id":  session,
		"snapshots":   snapshots,
	})
	if w.Code != http.StatusAccepted {
		t.Fatalf("ingest status %d: %s", w.Code, w.Body.String())
	}
}

func snap(ts int64, typ int) map[string]interface{} {
	return map[string]interface{}{"timestamp": ts, "type": typ, "data": map[string]interface{}{"source": 0}}
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestGetSnapshots(t *testing.T) {
	s := newTestServer(t)
	ingestBatch(t, s, "1", []map[string]interface{}{
		snap(baseTime, 2), snap(baseTime+10, 3), snap(baseTime+30, 3),
	})
	ingestBatch(t, s, "2", []map[string]interface{}{snap(baseTime, 3)})

	w := doJSON(t, s, http.MethodGet, "/api/session_recordings/snapshots?team_id=1&session_recording_id=1", nil)
	if w.Code != 200 {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Snapshots []map[string]interface{} `json:"snapshots"`
		Next      *string                  `json:"next"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Snapshots) != 3 {
		t.Fatalf("snapshots: got %d, want 3", len(resp.Snapshots))
	}
	if resp.Next != nil {
		t.Fatalf("expected null next, got %q", *resp.Next)
	}
	for i, want := range []int64{baseTime, baseTime + 10, baseTime + 30} {
		if ts := int64(resp.Snapshots[i]["timestamp"].(float64)); ts != want {
			t.Fatalf("snapshot %d timestamp: got %d, want %d", i, ts, want)
		}
	}
}

func TestGetSnapshotsUnknownSession(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/api/session_recordings/snapshots?session_recording_id=nope", nil)
	if w.Code != 200 {
		t.Fatalf("status: %d", w.Code)
	}
	var resp struct {
		Snapshots []map[string]interface{} `json:"snapshots"`
		Next      *string                  `json:"next"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Snapshots) != 0 || resp.Next != nil {
		t.Fatalf("expected empty page, got %d snapshots, next=%v", len(resp.Snapshots), resp.Next)
	}
}

func TestGetSnapshotsPagination(t *testing.T) {
	s := newTestServer(t)
	// 11 batches of 2 events, one chunk group each
	for i := int64(0); i < 11; i++ {
		ingestBatch(t, s, "1", []map[string]interface{}{
			snap(baseTime+i, 3), snap(baseTime+i, 3),
		})
	}

	w := doJSON(t, s, http.MethodGet, "/api/session_recordings/snapshots?team_id=1&session_recording_id=1&limit=10", nil)
	if w.Code != 200 {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Snapshots []map[string]interface{} `json:"snapshots"`
		Next      *string                  `json:"next"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Snapshots) != 20 {
		t.Fatalf("first page: got %d snapshots, want 20", len(resp.Snapshots))
	}
	if resp.Next == nil {
		t.Fatal("expected a next url")
	}
	nextURL, err := url.Parse(*resp.Next)
	if err != nil {
		t.Fatalf("parse next: %v", err)
	}
	q := nextURL.Query()
	if q.Get("offset") != "10" || q.Get("limit") != "10" {
		t.Fatalf("next query: offset=%s limit=%s", q.Get("offset"), q.Get("limit"))
	}
	if q.Get("session_recording_id") != "1" {
		t.Fatalf("next query lost session id: %s", nextURL)
	}

	w = doJSON(t, s, http.MethodGet, nextURL.RequestURI(), nil)
	if w.Code != 200 {
		t.Fatalf("second page status: %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode second page: %v", err)
	}
	if len(resp.Snapshots) != 2 {
		t.Fatalf("second page: got %d snapshots, want 2", len(resp.Snapshots))
	}
	if resp.Next != nil {
		t.Fatalf("second page should be last, got next %q", *resp.Next)
	}
}

func TestGetSnapshotsMissingSessionID(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/api/session_recordings/snapshots", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestIngestRejectsBadBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/snapshots", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestExportLifecycle(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/exports", map[string]interface{}{
		"team_id":        1,
		"export_format":  "text/csv",
		"content":        []byte("a,b\n1,2\n"),
		"export_context": map[string]interface{}{"filename": "My Export"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		ID       string `json:"id"`
		Filename string `json:"filename"`
		URL      string `json:"url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.Filename != "my-export.csv" {
		t.Fatalf("filename: %q", created.Filename)
	}
	if created.URL == "" {
		t.Fatal("expected a public url")
	}

	w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/exports/%s", created.ID), nil)
	if w.Code != 200 {
		t.Fatalf("get status: %d", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, created.URL, nil)
	if w.Code != 200 {
		t.Fatalf("exporter status %d: %s", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != "a,b\n1,2\n" {
		t.Fatalf("exporter content: %q", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type: %q", ct)
	}
}

func TestExporterRejectsBadToken(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/exporter/export.csv?token=garbage", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: %d", w.Code)
	}
}
