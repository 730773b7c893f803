package snapshot

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Decode failure classes. Each wraps ErrDecode so callers can match the
// family with errors.Is(err, ErrDecode) and still distinguish the cause.
var (
	ErrDecode = errors.New("snapshot: decode failed")
	// ErrBadEncoding reports text that is not valid base64.
	ErrBadEncoding = fmt.Errorf("%w: malformed text encoding", ErrDecode)
	// ErrBadStream reports a base64-valid but corrupt compressed stream.
	ErrBadStream = fmt.Errorf("%w: corrupt compressed stream", ErrDecode)
	// ErrBadContent reports a valid stream whose content is not a batch.
	ErrBadContent = fmt.Errorf("%w: invalid batch content", ErrDecode)
)

// Encode serializes the batch to canonical JSON, compresses it with gzip and
// encodes the compressed bytes as base64 text. Decode inverts it exactly,
// including for the empty batch.
func Encode(batch []Event) (string, error) {
	if batch == nil {
		batch = []Event{}
	}
	raw, err := json.Marshal(batch)
	if err != nil {
		return "", fmt.Errorf("snapshot: encode batch: %w", err)
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("snapshot: compress batch: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("snapshot: compress batch: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode recovers the original ordered batch from Encode output.
func Decode(text string) ([]Event, error) {
	compressed, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadEncoding, err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadStream, err)
	}
	raw, err := io.ReadAll(zr)
	if cerr := zr.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadStream, err)
	}
	var batch []Event
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadContent, err)
	}
	if batch == nil {
		batch = []Event{}
	}
	return batch, nil
}
