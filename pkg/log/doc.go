// Package log provides Replay's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. Formatting (JSON or text) and
// output destinations are pluggable so server, CLI, and tests can share the
// same facade with different presentation.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("recordings"))
//	l.Info("server started", log.Str("http", ":8080"))
//
// # Interop
//
// RedirectStdLog routes standard library log output (Pebble uses it) through
// a Logger so all process output shares one format.
package log
