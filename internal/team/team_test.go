package team

import (
	"testing"

	pebblestore "github.com/rzbill/replay/internal/storage/pebble"
)

func newDB(t *testing.T) *pebblestore.DB {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestEnsureIdempotent(t *testing.T) {
	db := newDB(t)
	m1, err := Ensure(db, 7)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if m1.TeamID != 7 || m1.CreatedAtMs == 0 {
		t.Fatalf("unexpected meta: %+v", m1)
	}
	m2, err := Ensure(db, 7)
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if m2.CreatedAtMs != m1.CreatedAtMs {
		t.Fatalf("ensure must not rewrite an existing record")
	}
}

func TestSetLimits(t *testing.T) {
	db := newDB(t)
	if _, err := SetLimits(db, 7, 10, 2048); err != nil {
		t.Fatalf("set limits: %v", err)
	}
	m, err := Ensure(db, 7)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if m.BatchSize != 10 || m.MaxChunkPayload != 2048 {
		t.Fatalf("overrides not persisted: %+v", m)
	}
}
