package client

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSnapshotsGetFollowsNext(t *testing.T) {
	var calls []string
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.RequestURI())
		resp := map[string]interface{}{
			"snapshots": []map[string]interface{}{{"timestamp": 1, "type": 3}},
			"next":      nil,
		}
		if r.URL.Query().Get("offset") == "" {
			next := srv.URL + "/api/session_recordings/snapshots?session_recording_id=1&limit=1&offset=1"
			resp["next"] = next
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	cmd := NewSnapshotsCommand(func() string { return srv.URL })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"get", "--session", "1", "--limit", "1", "--all"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 page fetches, got %d: %v", len(calls), calls)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 snapshot lines, got %d", len(lines))
	}
}

func TestSnapshotsGetRequiresSession(t *testing.T) {
	cmd := NewSnapshotsCommand(func() string { return "http://127.0.0.1:0" })
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"get"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error without --session")
	}
}

func TestSnapshotsSend(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	cmd := NewSnapshotsCommand(func() string { return srv.URL })
	cmd.SetIn(strings.NewReader(`[{"timestamp": 1600000000, "type": 2}]`))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"send", "--session", "1", "--team", "7", "--distinct-id", "user"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got["session_id"] != "1" {
		t.Fatalf("session_id: %v", got["session_id"])
	}
	snaps, ok := got["snapshots"].([]interface{})
	if !ok || len(snaps) != 1 {
		t.Fatalf("snapshots: %v", got["snapshots"])
	}
	if !strings.Contains(out.String(), "sent 1 snapshots") {
		t.Fatalf("output: %q", out.String())
	}
}
