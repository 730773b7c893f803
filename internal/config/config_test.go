package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.DefaultPageLimit != 20 {
		t.Fatalf("default page limit")
	}
	if cfg.Snapshot.BatchSize != 100 {
		t.Fatalf("batch size default")
	}
	if cfg.Snapshot.MaxChunkPayload != 512<<10 {
		t.Fatalf("chunk payload default")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "replay.json")
	data := []byte(`{"defaultPageLimit":50,"snapshotDefaults":{"batchSize":10,"maxChunkPayload":2048},"postgresDsn":"postgres://localhost/replay"}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultPageLimit != 50 {
		t.Fatalf("expected 50")
	}
	if cfg.Snapshot.BatchSize != 10 || cfg.Snapshot.MaxChunkPayload != 2048 {
		t.Fatalf("snapshot overrides not applied: %+v", cfg.Snapshot)
	}
	if cfg.PostgresDSN != "postgres://localhost/replay" {
		t.Fatalf("dsn not applied")
	}
	// untouched defaults survive a partial file
	if cfg.Export.TokenTTLDays != 365 {
		t.Fatalf("export ttl default lost")
	}
}

func TestLoadRejectsNonJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "replay.yaml")
	if err := os.WriteFile(file, []byte("a: b"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(file); err == nil {
		t.Fatalf("expected error for yaml config")
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	os.Setenv("REPLAY_DEFAULT_PAGE_LIMIT", "7")
	os.Setenv("REPLAY_SNAPSHOT_BATCH_SIZE", "3")
	os.Setenv("REPLAY_SNAPSHOT_MAX_CHUNK_PAYLOAD", "1024")
	os.Setenv("REPLAY_EXPORT_TOKEN_SECRET", "sekret")
	t.Cleanup(func() {
		os.Unsetenv("REPLAY_DEFAULT_PAGE_LIMIT")
		os.Unsetenv("REPLAY_SNAPSHOT_BATCH_SIZE")
		os.Unsetenv("REPLAY_SNAPSHOT_MAX_CHUNK_PAYLOAD")
		os.Unsetenv("REPLAY_EXPORT_TOKEN_SECRET")
	})
	FromEnv(&cfg)
	if cfg.DefaultPageLimit != 7 {
		t.Fatalf("env override page limit")
	}
	if cfg.Snapshot.BatchSize != 3 || cfg.Snapshot.MaxChunkPayload != 1024 {
		t.Fatalf("env override snapshot defaults")
	}
	if cfg.Export.TokenSecret != "sekret" {
		t.Fatalf("env override token secret")
	}
}

func TestFromEnvIgnoresInvalid(t *testing.T) {
	cfg := Default()
	os.Setenv("REPLAY_SNAPSHOT_BATCH_SIZE", "not-a-number")
	t.Cleanup(func() { os.Unsetenv("REPLAY_SNAPSHOT_BATCH_SIZE") })
	FromEnv(&cfg)
	if cfg.Snapshot.BatchSize != 100 {
		t.Fatalf("invalid env value must not override default")
	}
}
