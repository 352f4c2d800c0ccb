// Package wire frames stored cache entries.
//
// An entry is either plain (just the encoded value) or tagged (a dependency
// blob followed by the encoded value). The two shapes are distinguished by
// an explicit kind byte so a caller value can never be mistaken for the
// decorator's internal representation.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version    byte = 1
	kindPlain  byte = 1
	kindTagged byte = 2
)

var (
	ErrCorrupt = errors.New("depcache: corrupt entry")
	magic4     = [...]byte{'D', 'E', 'P', 'C'}
)

// Entry is a decoded frame. Dep is nil for plain entries. Dep and Payload
// alias the input buffer; callers must not mutate the buffer while holding them.
type Entry struct {
	Tagged  bool
	Dep     []byte
	Payload []byte
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Plain: magic(4) | ver(1) | kind(1=plain) | vlen(u32 be) | payload(vlen)
func EncodePlain(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindPlain)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// Tagged: magic(4) | ver(1) | kind(2=tagged) | dlen(u32 be) | dep(dlen) | vlen(u32 be) | payload(vlen)
func EncodeTagged(dep, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 4 + len(dep) + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindTagged)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(dep)))
	buf.Write(u4[:])
	buf.Write(dep)

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// Decode parses either frame shape with strict framing: truncated buffers,
// foreign bytes, and trailing junk all return ErrCorrupt.
func Decode(b []byte) (Entry, error) {
	const hdr = 4 + 1 + 1
	if len(b) < hdr || !hasMagic(b) || b[4] != version {
		return Entry{}, ErrCorrupt
	}

	kind := b[5]
	off := hdr

	var e Entry
	switch kind {
	case kindPlain:
	case kindTagged:
		e.Tagged = true
		if off+4 > len(b) {
			return Entry{}, ErrCorrupt
		}
		dlen := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if dlen < 0 || dlen > len(b)-off { // overflow-safe bound check
			return Entry{}, ErrCorrupt
		}
		e.Dep = b[off : off+dlen]
		off += dlen
	default:
		return Entry{}, ErrCorrupt
	}

	if off+4 > len(b) {
		return Entry{}, ErrCorrupt
	}
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen > len(b)-off {
		return Entry{}, ErrCorrupt
	}
	e.Payload = b[off : off+vlen]
	off += vlen

	if off != len(b) {
		return Entry{}, ErrCorrupt
	}
	return e, nil
}
