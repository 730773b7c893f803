package serverrun

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	cfgpkg "github.com/rzbill/replay/internal/config"
	"github.com/rzbill/replay/internal/runtime"
	httpserver "github.com/rzbill/replay/internal/server/http"
	pebblestore "github.com/rzbill/replay/internal/storage/pebble"
	logpkg "github.com/rzbill/replay/pkg/log"
)

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Options for starting the server process.
type Options struct {
	DataDir       string
	HTTPAddr      string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context: layer a
	// local signal context over the provided one.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	storeDir := filepath.Join(opts.DataDir, "store")

	logger := buildLogger()
	logpkg.RedirectStdLog(logger)

	rt, err := runtime.Open(sctx, runtime.Options{
		DataDir:       storeDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		Config:        opts.Config,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	backend := "pebble"
	if opts.Config.PostgresDSN != "" {
		backend = "postgres"
	}
	logger.Info("Starting replay server",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Str("chunk_store", backend),
		logpkg.Int("batch_size", opts.Config.Snapshot.BatchSize),
		logpkg.Int("max_chunk_payload", opts.Config.Snapshot.MaxChunkPayload),
	)

	hsrv := httpserver.New(rt, logger.With(logpkg.Component("http")))
	errCh := make(chan error, 1)
	go func() { errCh <- hsrv.ListenAndServe(sctx, opts.HTTPAddr) }()

	select {
	case <-sctx.Done():
	case err := <-errCh:
		if err != nil && sctx.Err() == nil {
			hsrv.Close()
			return err
		}
	}
	// Shut down the server before closing the runtime/DB to avoid races.
	hsrv.Close()
	return nil
}

// buildLogger resolves the process logger from REPLAY_LOG_LEVEL and
// REPLAY_LOG_FORMAT; defaults: level=info, format=text.
func buildLogger() logpkg.Logger {
	level := logpkg.InfoLevel
	if l, err := logpkg.ParseLevel(getenvDefault("REPLAY_LOG_LEVEL", "info")); err == nil {
		level = l
	}
	var formatter logpkg.Formatter = &logpkg.TextFormatter{}
	if getenvDefault("REPLAY_LOG_FORMAT", "text") == "json" {
		formatter = &logpkg.JSONFormatter{}
	}
	return logpkg.NewLogger(
		logpkg.WithLevel(level),
		logpkg.WithFormatter(formatter),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)
}
