package config

import (
	"os"
	"strconv"
)

// FromEnv overlays REPLAY_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("REPLAY_DEFAULT_PAGE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultPageLimit = n
		}
	}
	if v := os.Getenv("REPLAY_SNAPSHOT_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Snapshot.BatchSize = n
		}
	}
	if v := os.Getenv("REPLAY_SNAPSHOT_MAX_CHUNK_PAYLOAD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Snapshot.MaxChunkPayload = n
		}
	}
	if v := os.Getenv("REPLAY_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("REPLAY_EXPORT_TOKEN_SECRET"); v != "" {
		cfg.Export.TokenSecret = v
	}
	if v := os.Getenv("REPLAY_EXPORT_TOKEN_TTL_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Export.TokenTTLDays = n
		}
	}
}
