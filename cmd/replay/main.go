package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	clientcmd "github.com/rzbill/replay/internal/cmd/client"
	serverrun "github.com/rzbill/replay/internal/cmd/server"
	cfgpkg "github.com/rzbill/replay/internal/config"
	pebblestore "github.com/rzbill/replay/internal/storage/pebble"
	logpkg "github.com/rzbill/replay/pkg/log"
)

func main() {
	// Respect REPLAY_LOG_LEVEL for CLI output
	level := os.Getenv("REPLAY_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)

	// Redirect standard library logs (used by Pebble) to our logger
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay session recording CLI",
		Long:  "Replay stores chunked session recordings and reconstructs them on demand. This CLI manages the server and basic operations.",
	}

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the replay server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, _ := cmd.Flags().GetString("data-dir")
			httpAddr, _ := cmd.Flags().GetString("http")
			configPath, _ := cmd.Flags().GetString("config")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			fsyncIntervalMs, _ := cmd.Flags().GetInt("fsync-interval-ms")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")
			batchSize, _ := cmd.Flags().GetInt("snapshot-batch-size")
			maxChunkPayload, _ := cmd.Flags().GetInt("snapshot-max-chunk-payload")

			mode := pebblestore.FsyncModeAlways
			switch fsyncMode {
			case "never":
				mode = pebblestore.FsyncModeNever
			case "interval":
				mode = pebblestore.FsyncModeInterval
			case "always":
				mode = pebblestore.FsyncModeAlways
			default:
				return fmt.Errorf("invalid --fsync; use always|interval|never")
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg := cfgpkg.Default()
			if configPath != "" {
				loaded, err := cfgpkg.Load(configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cfg = loaded
			}
			cfgpkg.FromEnv(&cfg)
			if batchSize > 0 {
				cfg.Snapshot.BatchSize = batchSize
			}
			if maxChunkPayload > 0 {
				cfg.Snapshot.MaxChunkPayload = maxChunkPayload
			}
			if logLevel != "" {
				_ = os.Setenv("REPLAY_LOG_LEVEL", logLevel)
			}
			if logFormat != "" {
				_ = os.Setenv("REPLAY_LOG_FORMAT", logFormat)
			}

			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:       dataDir,
				HTTPAddr:      httpAddr,
				Fsync:         mode,
				FsyncInterval: time.Duration(fsyncIntervalMs) * time.Millisecond,
				Config:        cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	serverStartCmd.Flags().String("http", ":8080", "HTTP listen address")
	serverStartCmd.Flags().String("config", "", "Path to JSON config file")
	serverStartCmd.Flags().String("fsync", "always", "Fsync mode: always|interval|never")
	serverStartCmd.Flags().Int("fsync-interval-ms", 5, "When --fsync=interval, group-commit window in ms (default 5)")
	serverStartCmd.Flags().String("log-level", os.Getenv("REPLAY_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("REPLAY_LOG_FORMAT"), "Log format: text|json (default text)")
	serverStartCmd.Flags().Int("snapshot-batch-size", 0, "Events per chunk group (default from config)")
	serverStartCmd.Flags().Int("snapshot-max-chunk-payload", 0, "Max encoded chunk payload in bytes (default from config)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// snapshot commands hitting the HTTP API
	rootCmd.AddCommand(clientcmd.NewSnapshotsCommand(apiURL))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("REPLAY_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
