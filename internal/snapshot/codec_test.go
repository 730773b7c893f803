package snapshot

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"errors"
	"reflect"
	"testing"
)

func evt(session string, ts int64, typ int) Event {
	return Event{
		TeamID:     1,
		DistinctID: "user",
		SessionID:  session,
		Timestamp:  ts,
		Data: map[string]interface{}{
			"type":      float64(typ),
			"timestamp": float64(ts),
		},
	}
}

func evts(session string, n int) []Event {
	out := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, evt(session, 1_600_000_000+int64(i), 2))
	}
	return out
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 3, 50} {
		batch := evts("s", n)
		text, err := Encode(batch)
		if err != nil {
			t.Fatalf("encode n=%d: %v", n, err)
		}
		got, err := Decode(text)
		if err != nil {
			t.Fatalf("decode n=%d: %v", n, err)
		}
		if len(got) != n {
			t.Fatalf("n=%d: got %d events", n, len(got))
		}
		if n > 0 && !reflect.DeepEqual(got, batch) {
			t.Fatalf("n=%d: round trip mismatch\n got %#v\nwant %#v", n, got, batch)
		}
	}
}

func TestEncodeNilBatch(t *testing.T) {
	text, err := Encode(nil)
	if err != nil {
		t.Fatalf("encode nil: %v", err)
	}
	got, err := Decode(text)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty batch, got %d", len(got))
	}
}

func TestDecodeBadEncoding(t *testing.T) {
	_, err := Decode("!!! not base64 !!!")
	if !errors.Is(err, ErrBadEncoding) {
		t.Fatalf("expected ErrBadEncoding, got %v", err)
	}
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("bad encoding must match ErrDecode")
	}
}

func TestDecodeBadStream(t *testing.T) {
	// valid base64, but the bytes are not a gzip stream
	text := base64.StdEncoding.EncodeToString([]byte("definitely not gzip"))
	_, err := Decode(text)
	if !errors.Is(err, ErrBadStream) {
		t.Fatalf("expected ErrBadStream, got %v", err)
	}
	if errors.Is(err, ErrBadEncoding) {
		t.Fatalf("stream error must not match encoding error")
	}
}

func TestDecodeBadContent(t *testing.T) {
	// valid gzip stream whose content is not a batch
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(`{"not":"a batch"}`))
	_ = zw.Close()
	_, err := Decode(base64.StdEncoding.EncodeToString(buf.Bytes()))
	if !errors.Is(err, ErrBadContent) {
		t.Fatalf("expected ErrBadContent, got %v", err)
	}
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("bad content must match ErrDecode")
	}
}

func TestEventType(t *testing.T) {
	if got := evt("s", 1, 3).Type(); got != 3 {
		t.Fatalf("type: got %d", got)
	}
	if got := (Event{Data: map[string]interface{}{}}).Type(); got != -1 {
		t.Fatalf("missing type should be -1, got %d", got)
	}
}
