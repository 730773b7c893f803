// Package runtime wires storage, configuration, and shared facades for a
// single-node Replay instance.
package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rzbill/replay/internal/chunkstore"
	cfgpkg "github.com/rzbill/replay/internal/config"
	"github.com/rzbill/replay/internal/metrics"
	pebblestore "github.com/rzbill/replay/internal/storage/pebble"
	"github.com/rzbill/replay/internal/team"
)

// Options for building the Runtime.
type Options struct {
	DataDir       string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
	// Registry receives metric collectors. Defaults to the prometheus
	// default registerer.
	Registry prometheus.Registerer
}

// Runtime wires storage, config, and facades for a single-node instance.
type Runtime struct {
	db      *pebblestore.DB
	config  cfgpkg.Config
	store   chunkstore.Store
	metrics *metrics.Metrics
	// pg is set when the chunk store runs on Postgres; kept for Close.
	pg *chunkstore.PostgresStore
}

// Open initializes storage, metrics, and the configured chunk store backend.
func Open(ctx context.Context, opts Options) (*Runtime, error) {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := metrics.New(reg)

	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       opts.DataDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		Metrics:       m,
	})
	if err != nil {
		return nil, err
	}

	rt := &Runtime{db: db, config: opts.Config, metrics: m}
	if dsn := opts.Config.PostgresDSN; dsn != "" {
		pg, err := chunkstore.OpenPostgres(ctx, dsn)
		if err != nil {
			db.Close()
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			db.Close()
			return nil, err
		}
		rt.pg = pg
		rt.store = pg
	} else {
		rt.store = chunkstore.NewPebble(db)
	}
	return rt, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	var first error
	if r.pg != nil {
		first = r.pg.Close()
	}
	if r.db != nil {
		if err := r.db.Close(); first == nil {
			first = err
		}
	}
	return first
}

// CheckHealth performs a simple storage health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	it.Close()
	return nil
}

// EnsureTeam creates a team record if absent.
func (r *Runtime) EnsureTeam(id int64) (team.Meta, error) {
	return team.Ensure(r.db, id)
}

// Store returns the configured chunk store backend.
func (r *Runtime) Store() chunkstore.Store { return r.store }

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Metrics returns the process metrics bundle.
func (r *Runtime) Metrics() *metrics.Metrics { return r.metrics }
