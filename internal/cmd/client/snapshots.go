// Package client contains Cobra CLI commands for the replay HTTP API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// NewSnapshotsCommand constructs the `snapshots` command group.
func NewSnapshotsCommand(baseURL BaseURLFunc) *cobra.Command {
	snapshotsCmd := &cobra.Command{Use: "snapshots", Short: "Session snapshot operations"}
	snapshotsCmd.AddCommand(
		newSnapshotsGetCommand(baseURL),
		newSnapshotsSendCommand(baseURL),
	)
	return snapshotsCmd
}

// newSnapshotsGetCommand constructs `snapshots get`: it pages through a
// session recording and prints each snapshot as one JSON line.
func newSnapshotsGetCommand(baseURL BaseURLFunc) *cobra.Command {
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch reconstructed snapshots for a session recording",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, _ := cmd.Flags().GetString("session")
			teamID, _ := cmd.Flags().GetInt64("team")
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")
			filter, _ := cmd.Flags().GetString("filter")
			all, _ := cmd.Flags().GetBool("all")
			if session == "" {
				return fmt.Errorf("--session is required")
			}

			q := url.Values{}
			q.Set("session_recording_id", session)
			q.Set("team_id", strconv.FormatInt(teamID, 10))
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			if offset > 0 {
				q.Set("offset", strconv.Itoa(offset))
			}
			if filter != "" {
				q.Set("filter", filter)
			}
			next := baseURL() + "/api/session_recordings/snapshots?" + q.Encode()

			enc := json.NewEncoder(cmd.OutOrStdout())
			for next != "" {
				page, err := fetchPage(cmd.Context(), next)
				if err != nil {
					return err
				}
				for _, snap := range page.Snapshots {
					_ = enc.Encode(snap)
				}
				if !all || page.Next == nil {
					break
				}
				next = *page.Next
			}
			return nil
		},
	}
	getCmd.Flags().String("session", "", "Session recording id")
	getCmd.Flags().Int64("team", 0, "Team id")
	getCmd.Flags().Int("limit", 0, "Chunk groups per page (0 = server default)")
	getCmd.Flags().Int("offset", 0, "Chunk groups to skip")
	getCmd.Flags().String("filter", "", "CEL filter (server-side)")
	getCmd.Flags().Bool("all", false, "Follow next links until the session is exhausted")
	return getCmd
}

// newSnapshotsSendCommand constructs `snapshots send`: it reads a JSON array
// of snapshot events from a file or stdin and posts them as one batch.
func newSnapshotsSendCommand(baseURL BaseURLFunc) *cobra.Command {
	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Ingest a batch of snapshot events for one session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, _ := cmd.Flags().GetString("session")
			teamID, _ := cmd.Flags().GetInt64("team")
			distinctID, _ := cmd.Flags().GetString("distinct-id")
			file, _ := cmd.Flags().GetString("file")
			if session == "" {
				return fmt.Errorf("--session is required")
			}

			var in io.Reader = cmd.InOrStdin()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			var snapshots []map[string]interface{}
			if err := json.NewDecoder(in).Decode(&snapshots); err != nil {
				return fmt.Errorf("decode snapshots: %w", err)
			}

			body, err := json.Marshal(map[string]interface{}{
				"team_id":     teamID,
				"distinct_id": distinctID,
				"session_id":  session,
				"snapshots":   snapshots,
			})
			if err != nil {
				return err
			}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost,
				baseURL()+"/api/snapshots", bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer drainClose(resp.Body)
			if resp.StatusCode != http.StatusAccepted {
				return fmt.Errorf("ingest failed: %s", resp.Status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d snapshots\n", len(snapshots))
			return nil
		},
	}
	sendCmd.Flags().String("session", "", "Session recording id")
	sendCmd.Flags().Int64("team", 0, "Team id")
	sendCmd.Flags().String("distinct-id", "", "Distinct id of the recorded user")
	sendCmd.Flags().String("file", "", "JSON file with an array of snapshot events (default stdin)")
	return sendCmd
}
