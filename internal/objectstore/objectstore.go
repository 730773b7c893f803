// Package objectstore is the narrow blob interface behind exported-asset
// content. The embedded implementation keeps blobs in Pebble; production
// deployments can substitute a bucket-backed implementation.
package objectstore

import (
	"context"
	"errors"
	"fmt"

	pebblestore "github.com/rzbill/replay/internal/storage/pebble"
)

// ErrNotFound reports a missing object location.
var ErrNotFound = errors.New("objectstore: object not found")

// Store reads and writes opaque blobs by location.
type Store interface {
	WriteBytes(ctx context.Context, location string, b []byte) error
	ReadBytes(ctx context.Context, location string) ([]byte, error)
}

var objPrefix = []byte("obj/")

// PebbleStore keeps blobs in the embedded database.
type PebbleStore struct {
	db *pebblestore.DB
}

// NewPebble builds a Store over an open Pebble wrapper.
func NewPebble(db *pebblestore.DB) *PebbleStore { return &PebbleStore{db: db} }

func objKey(location string) []byte {
	k := make([]byte, 0, len(objPrefix)+len(location))
	k = append(k, objPrefix...)
	return append(k, location...)
}

// WriteBytes stores the blob at location, overwriting any previous content.
func (s *PebbleStore) WriteBytes(ctx context.Context, location string, b []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Set(objKey(location), b)
}

// ReadBytes returns a copy of the blob at location.
func (s *PebbleStore) ReadBytes(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := s.db.Get(objKey(location))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
		}
		return nil, err
	}
	return b, nil
}
