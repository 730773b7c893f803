package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// DefaultPageLimit is the group count served per snapshots page when the
	// request does not carry an explicit limit.
	DefaultPageLimit int              `json:"defaultPageLimit"`
	Snapshot         SnapshotDefaults `json:"snapshotDefaults"`
	// PostgresDSN selects the Postgres chunk store backend when non-empty;
	// otherwise chunks live in the embedded Pebble store.
	PostgresDSN string       `json:"postgresDsn"`
	Export      ExportConfig `json:"export"`
}

// SnapshotDefaults captures baseline chunking limits. Teams may override
// them through the team registry.
type SnapshotDefaults struct {
	// BatchSize is the maximum number of events compressed together into one
	// chunk group.
	BatchSize int `json:"batchSize"`
	// MaxChunkPayload bounds the stored payload bytes per chunk row. It
	// abstracts the backing store's row/field size limit.
	MaxChunkPayload int `json:"maxChunkPayload"`
}

// ExportConfig configures the exported-asset surface.
type ExportConfig struct {
	// TokenSecret signs public access tokens for exported assets. Empty
	// disables public URLs.
	TokenSecret string `json:"tokenSecret"`
	// TokenTTLDays is the public token lifetime in days.
	TokenTTLDays int `json:"tokenTtlDays"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		DefaultPageLimit: 20,
		Snapshot: SnapshotDefaults{
			BatchSize:       100,
			MaxChunkPayload: 512 << 10,
		},
		Export: ExportConfig{
			TokenTTLDays: 365,
		},
	}
}

// Load reads configuration from a JSON file. If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if ext := filepath.Ext(path); ext != "" && ext != ".json" {
		return Config{}, fmt.Errorf("config: unsupported extension %q; use JSON", ext)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
