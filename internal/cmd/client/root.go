package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the replay client.
// It registers the snapshots command group.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "replay",
		Short: "Replay client commands",
	}
	root.AddCommand(NewSnapshotsCommand(baseURL))
	return root
}
