package objectstore

import (
	"context"
	"errors"
	"testing"

	pebblestore "github.com/rzbill/replay/internal/storage/pebble"
)

func newStore(t *testing.T) *PebbleStore {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPebble(db)
}

func TestWriteReadBytes(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	if err := s.WriteBytes(ctx, "exports/1/file.gz", []byte("blob")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := s.ReadBytes(ctx, "exports/1/file.gz")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "blob" {
		t.Fatalf("got %q", b)
	}
}

func TestReadMissing(t *testing.T) {
	s := newStore(t)
	_, err := s.ReadBytes(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
