// Package exports stores exported artifacts (PNG, PDF, CSV) and serves them
// through signed public URLs. Large content is gzipped into the object
// store; metadata stays in the embedded database.
package exports

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/rzbill/replay/internal/objectstore"
	"github.com/rzbill/replay/internal/runtime"
	pebblestore "github.com/rzbill/replay/internal/storage/pebble"
	logpkg "github.com/rzbill/replay/pkg/log"
)

// inlineLimit is the largest content kept inline with the asset metadata.
const inlineLimit = 16 << 10

// ErrNotFound reports an unknown asset id.
var ErrNotFound = errors.New("exports: asset not found")

// ErrBadFormat reports an unsupported export format.
var ErrBadFormat = errors.New("exports: unsupported format")

// Service manages exported assets.
type Service struct {
	rt     *runtime.Runtime
	obj    objectstore.Store
	signer *TokenSigner
	logger logpkg.Logger
}

// New builds the service from the runtime configuration.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, nil)
}

// NewWithLogger constructs the service with an injected logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("exports"))
	}
	exp := rt.Config().Export
	return &Service{
		rt:     rt,
		obj:    objectstore.NewPebble(rt.DB()),
		signer: NewTokenSigner(exp.TokenSecret, time.Duration(exp.TokenTTLDays)*24*time.Hour),
		logger: logger,
	}
}

var assetPrefix = []byte("asset/")

func assetKey(id uuid.UUID) []byte {
	k := make([]byte, 0, len(assetPrefix)+16)
	k = append(k, assetPrefix...)
	return append(k, id[:]...)
}

// Create stores a new asset. Content larger than the inline limit is gzipped
// into the object store and referenced by location.
func (s *Service) Create(ctx context.Context, teamID int64, format Format, content []byte, exportContext map[string]interface{}) (Asset, error) {
	if !format.Valid() {
		return Asset{}, fmt.Errorf("%w: %q", ErrBadFormat, format)
	}
	asset := Asset{
		ID:            uuid.New(),
		TeamID:        teamID,
		Format:        format,
		ExportContext: exportContext,
		CreatedAt:     time.Now().UTC(),
	}

	if len(content) > inlineLimit {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(content); err != nil {
			return Asset{}, fmt.Errorf("exports: compress content: %w", err)
		}
		if err := zw.Close(); err != nil {
			return Asset{}, fmt.Errorf("exports: compress content: %w", err)
		}
		location := fmt.Sprintf("exports/%d/%s.gz", teamID, asset.ID)
		if err := s.obj.WriteBytes(ctx, location, buf.Bytes()); err != nil {
			return Asset{}, err
		}
		asset.ContentLocation = location
	} else {
		asset.Content = content
	}

	meta, err := json.Marshal(asset)
	if err != nil {
		return Asset{}, fmt.Errorf("exports: marshal asset: %w", err)
	}
	if err := s.rt.DB().Set(assetKey(asset.ID), meta); err != nil {
		return Asset{}, err
	}
	s.rt.Metrics().AssetsExported.Inc()
	s.logger.Debug("stored exported asset",
		logpkg.Str("asset_id", asset.ID.String()),
		logpkg.Int64("team_id", teamID),
		logpkg.Str("format", string(format)),
	)
	return asset, nil
}

// Get loads asset metadata by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}
	b, err := s.rt.DB().Get(assetKey(id))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return Asset{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Asset{}, err
	}
	var asset Asset
	if err := json.Unmarshal(b, &asset); err != nil {
		return Asset{}, fmt.Errorf("exports: unmarshal asset: %w", err)
	}
	return asset, nil
}

// Content returns the asset's bytes, inverting the storage gzip when the
// content lives in the object store.
func (s *Service) Content(ctx context.Context, asset Asset) ([]byte, error) {
	if len(asset.Content) > 0 || asset.ContentLocation == "" {
		return asset.Content, nil
	}
	compressed, err := s.obj.ReadBytes(ctx, asset.ContentLocation)
	if err != nil {
		return nil, err
	}
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("exports: decompress content: %w", err)
	}
	content, err := io.ReadAll(zr)
	if cerr := zr.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("exports: decompress content: %w", err)
	}
	return content, nil
}

// PublicToken mints a public access token for the asset.
func (s *Service) PublicToken(asset Asset) (string, error) {
	return s.signer.Sign(asset.ID)
}

// PublicPath builds the exporter path for the asset, relative to the host.
func (s *Service) PublicPath(asset Asset) (string, error) {
	token, err := s.PublicToken(asset)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/exporter/%s?token=%s", asset.Filename(), token), nil
}

// AssetForToken verifies the token and resolves the asset it grants.
func (s *Service) AssetForToken(ctx context.Context, token string) (Asset, error) {
	id, err := s.signer.Verify(token)
	if err != nil {
		return Asset{}, err
	}
	return s.Get(ctx, id)
}
