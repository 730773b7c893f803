package chunkstore

import (
	"bytes"
	"testing"
)

func TestKeyOrdering(t *testing.T) {
	earlier := KeyChunk(1, "s", 1000, "g-b", 0)
	later := KeyChunk(1, "s", 2000, "g-a", 0)
	if bytes.Compare(earlier, later) >= 0 {
		t.Fatalf("timestamp must dominate key order")
	}
	idx0 := KeyChunk(1, "s", 1000, "g-a", 0)
	idx1 := KeyChunk(1, "s", 1000, "g-a", 1)
	if bytes.Compare(idx0, idx1) >= 0 {
		t.Fatalf("chunk index must order siblings")
	}
}

func TestKeyPrefixCoversSession(t *testing.T) {
	prefix := KeySessionPrefix(7, "sess")
	key := KeyChunk(7, "sess", 42, "g", 3)
	if !bytes.HasPrefix(key, prefix) {
		t.Fatalf("chunk key must carry the session prefix")
	}
	other := KeyChunk(7, "other", 42, "g", 3)
	if bytes.HasPrefix(other, prefix) {
		t.Fatalf("prefix must not match a different session")
	}
}

func TestKeyPrefixNotAliasedBySlash(t *testing.T) {
	// session ids are client-supplied free text; an id embedding the key
	// separator must not fold into a shorter id's range
	prefix := KeySessionPrefix(1, "1")
	evil := KeyChunk(1, "1/evil", 2000, "g", 0)
	if bytes.HasPrefix(evil, prefix) {
		t.Fatalf("session %q key must not fall inside session %q range", "1/evil", "1")
	}
	if bytes.HasPrefix(KeyChunk(1, "1", 2000, "g", 0), KeySessionPrefix(1, "1/evil")) {
		t.Fatalf("aliasing must not hold in the other direction either")
	}
}

func TestKeySegmentExtraction(t *testing.T) {
	prefix := KeySessionPrefix(7, "sess")
	key := KeyChunk(7, "sess", 1_600_000_000, "group-1", 5)
	if got := keyGroupID(key, len(prefix)); got != "group-1" {
		t.Fatalf("group id: got %q", got)
	}
	if got := keyTimestamp(key, len(prefix)); got != 1_600_000_000 {
		t.Fatalf("timestamp: got %d", got)
	}
	if got := keyChunkIndex(key); got != 5 {
		t.Fatalf("index: got %d", got)
	}
}

func TestKeySegmentExtractionRejectsMalformedLayout(t *testing.T) {
	prefix := KeySessionPrefix(7, "sess")
	// wrong separator positions after the prefix must not parse as a group
	malformed := append(append([]byte(nil), prefix...), []byte("xxxxxxxxxgroup-1xXXXX")...)
	if got := keyGroupID(malformed, len(prefix)); got != "" {
		t.Fatalf("malformed key parsed as group %q", got)
	}
	if got := keyGroupID([]byte("short"), len(prefix)); got != "" {
		t.Fatalf("truncated key parsed as group %q", got)
	}
	if got := keyTimestamp([]byte("short"), len(prefix)); got != 0 {
		t.Fatalf("truncated key parsed timestamp %d", got)
	}
}
