// Package metrics exposes Prometheus collectors for the Replay pipeline and
// implements the storage MetricsHook seam.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every collector the service emits. Construct once per
// process with New and share.
type Metrics struct {
	SnapshotsIngested prometheus.Counter
	ChunksWritten     prometheus.Counter
	PagesServed       prometheus.Counter
	IncompleteGroups  prometheus.Counter
	DecodeFailures    prometheus.Counter
	AssetsExported    prometheus.Counter

	storeWriteSeconds  prometheus.Histogram
	storeReadSeconds   prometheus.Histogram
	storeCommitSeconds prometheus.Histogram
}

// New registers collectors on the given registerer. Pass a fresh
// prometheus.NewRegistry() in tests to avoid cross-test registration clashes.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SnapshotsIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "replay_snapshots_ingested_total",
			Help: "Total number of snapshot events accepted for storage",
		}),
		ChunksWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "replay_chunks_written_total",
			Help: "Total number of chunk rows written to the store",
		}),
		PagesServed: factory.NewCounter(prometheus.CounterOpts{
			Name: "replay_snapshot_pages_served_total",
			Help: "Total number of snapshot pages served",
		}),
		IncompleteGroups: factory.NewCounter(prometheus.CounterOpts{
			Name: "replay_incomplete_groups_total",
			Help: "Chunk groups skipped at read time due to missing indices",
		}),
		DecodeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "replay_decode_failures_total",
			Help: "Chunk groups dropped at read time due to decode failures",
		}),
		AssetsExported: factory.NewCounter(prometheus.CounterOpts{
			Name: "replay_assets_exported_total",
			Help: "Exported assets stored",
		}),
		storeWriteSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "replay_store_write_duration_seconds",
			Help:    "Duration of point writes to the embedded store",
			Buckets: prometheus.DefBuckets,
		}),
		storeReadSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "replay_store_read_duration_seconds",
			Help:    "Duration of point reads from the embedded store",
			Buckets: prometheus.DefBuckets,
		}),
		storeCommitSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "replay_store_commit_duration_seconds",
			Help:    "Duration of batch commits to the embedded store",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveWrite implements pebblestore.MetricsHook.
func (m *Metrics) ObserveWrite(elapsed time.Duration, bytes int) {
	m.storeWriteSeconds.Observe(elapsed.Seconds())
}

// ObserveRead implements pebblestore.MetricsHook.
func (m *Metrics) ObserveRead(elapsed time.Duration, bytes int) {
	m.storeReadSeconds.Observe(elapsed.Seconds())
}

// ObserveBatchCommit implements pebblestore.MetricsHook.
func (m *Metrics) ObserveBatchCommit(elapsed time.Duration, numOps, bytes int) {
	m.storeCommitSeconds.Observe(elapsed.Seconds())
}
