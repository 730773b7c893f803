package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// snapshotsPage mirrors the snapshot page envelope served by the API.
type snapshotsPage struct {
	Snapshots []map[string]interface{} `json:"snapshots"`
	Next      *string                  `json:"next"`
}

// fetchPage GETs one snapshot page from an absolute URL.
func fetchPage(ctx context.Context, pageURL string) (snapshotsPage, error) {
	var page snapshotsPage
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return page, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return page, err
	}
	defer drainClose(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return page, fmt.Errorf("fetch snapshots: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return page, fmt.Errorf("decode snapshots page: %w", err)
	}
	return page, nil
}

// drainClose discards remaining body bytes so the connection can be reused.
func drainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
