package chunkstore

import (
	"encoding/binary"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - rec/{team_be8}/{slen_be2}{session}/{ts_be8}/{group}/{idx_be4}
//
// Big-endian fixed-width segments keep numeric order under byte comparison,
// so a single forward scan of a session prefix visits chunks in (timestamp,
// group, index) order. The session segment is length-prefixed because the id
// is client-supplied free text: without the length, session "1" would share
// a key prefix with "1/evil" and a range scan would leak foreign rows. The
// group id sits in the key on purpose: grouping and pagination survive even
// when a row value is corrupt.

var (
	sep       = byte('/')
	recPrefix = []byte("rec/")
)

func appendBE2(dst []byte, v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

func appendBE4(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// MaxSessionIDLen bounds stored session ids so the length prefix can never
// truncate.
const MaxSessionIDLen = 1024

// KeySessionPrefix builds the range prefix covering every chunk of a session.
func KeySessionPrefix(teamID int64, sessionID string) []byte {
	k := make([]byte, 0, len(recPrefix)+len(sessionID)+18)
	k = append(k, recPrefix...)
	k = appendBE8(k, uint64(teamID))
	k = append(k, sep)
	k = appendBE2(k, uint16(len(sessionID)))
	k = append(k, sessionID...)
	k = append(k, sep)
	return k
}

// KeyChunk builds the full key for one chunk row.
func KeyChunk(teamID int64, sessionID string, ts int64, groupID string, index int) []byte {
	k := KeySessionPrefix(teamID, sessionID)
	k = appendBE8(k, uint64(ts))
	k = append(k, sep)
	k = append(k, groupID...)
	k = append(k, sep)
	k = appendBE4(k, uint32(index))
	return k
}

// keyGroupID extracts the group id segment from a chunk key built by
// KeyChunk, given the session prefix length. Returns "" for keys that do not
// carry the ts_be8 '/' group '/' idx_be4 layout after the prefix.
func keyGroupID(key []byte, prefixLen int) string {
	if len(key) < prefixLen {
		return ""
	}
	rest := key[prefixLen:]
	if len(rest) < 8+1+1+1+4 {
		return ""
	}
	if rest[8] != sep || rest[len(rest)-5] != sep {
		return ""
	}
	return string(rest[9 : len(rest)-5])
}

// keyTimestamp extracts the big-endian timestamp segment.
func keyTimestamp(key []byte, prefixLen int) int64 {
	if len(key) < prefixLen+8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(key[prefixLen : prefixLen+8]))
}

// keyChunkIndex extracts the trailing big-endian chunk index segment.
func keyChunkIndex(key []byte) int {
	if len(key) < 4 {
		return 0
	}
	return int(binary.BigEndian.Uint32(key[len(key)-4:]))
}
