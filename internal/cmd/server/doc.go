// Package serverrun hosts the server process lifecycle: storage open,
// logger setup, HTTP serving, and signal-driven shutdown.
package serverrun
