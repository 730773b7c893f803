// Package httpserver exposes the HTTP API: snapshot ingest, paginated
// session reconstruction, exported assets, health, and Prometheus metrics.
package httpserver
