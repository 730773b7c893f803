package serverrun

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	cfgpkg "github.com/rzbill/replay/internal/config"
	pebblestore "github.com/rzbill/replay/internal/storage/pebble"
)

func TestGetenvDefault(t *testing.T) {
	_ = os.Setenv("REPLAY_TEST_VAR", "env_value")
	t.Cleanup(func() { _ = os.Unsetenv("REPLAY_TEST_VAR") })
	if got := getenvDefault("REPLAY_TEST_VAR", "default"); got != "env_value" {
		t.Fatalf("set var: got %q", got)
	}
	if got := getenvDefault("REPLAY_TEST_VAR_UNSET", "default"); got != "default" {
		t.Fatalf("unset var: got %q", got)
	}
}

func TestDataDirFallback(t *testing.T) {
	opts := Options{}
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	if opts.DataDir == "" {
		t.Fatal("expected DataDir after fallback")
	}
	storeDir := filepath.Join(opts.DataDir, "store")
	if storeDir == opts.DataDir {
		t.Fatal("store dir should nest under data dir")
	}
}

// TestRunIntegration starts a real server on an ephemeral port and cancels
// it shortly after.
func TestRunIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := Run(ctx, Options{
		DataDir:       t.TempDir(),
		HTTPAddr:      ":0",
		Fsync:         pebblestore.FsyncModeNever,
		FsyncInterval: time.Millisecond,
		Config:        cfgpkg.Default(),
	})
	if err != nil && err != context.DeadlineExceeded && err != context.Canceled {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
}
