package chunkstore

import (
	"encoding/binary"
	"hash/crc32"
)

// Row encoding: varint headerLen | header | payload | crc32c(header|payload)
//
// The header carries row metadata not present in the key (distinct id, chunk
// count); the payload is the chunk's compressed text. The CRC trailer lets
// reads detect row corruption and degrade by dropping the affected group.

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// EncodeRow frames a header and payload with a crc32c trailer.
func EncodeRow(header, payload []byte) []byte {
	out := make([]byte, 0, 10+len(header)+len(payload)+4)
	var tmp [10]byte
	n := binary.PutUvarint(tmp[:], uint64(len(header)))
	out = append(out, tmp[:n]...)
	out = append(out, header...)
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	out = append(out, crcb[:]...)
	return out
}

// DecodeRow recovers the header and payload, verifying the CRC. Returns
// ok=false for truncated or corrupt rows.
func DecodeRow(b []byte) (header, payload []byte, ok bool) {
	if len(b) < 1+4 {
		return nil, nil, false
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 {
		return nil, nil, false
	}
	if n+int(hlen)+4 > len(b) {
		return nil, nil, false
	}
	header = b[n : n+int(hlen)]
	payload = b[n+int(hlen) : len(b)-4]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != expect {
		return nil, nil, false
	}
	return append([]byte(nil), header...), append([]byte(nil), payload...), true
}
