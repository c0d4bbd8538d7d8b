package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const version byte = 1

// Format identifies the codec that produced a frame payload.
type Format byte

const (
	FormatJSON    Format = 1
	FormatMsgpack Format = 2
	FormatCBOR    Format = 3
	FormatProto   Format = 4
	FormatRaw     Format = 5
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	case FormatCBOR:
		return "cbor"
	case FormatProto:
		return "protobuf"
	case FormatRaw:
		return "raw"
	default:
		return "unknown"
	}
}

var (
	ErrCorrupt = errors.New("memocache: corrupt entry")
	magic4     = [...]byte{'M', 'E', 'M', 'O'}
)

const headerLen = 4 + 1 + 1 + 4

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Encode frames payload as: magic(4) | ver(1) | format(1) | vlen(u32 be) | payload(vlen)
func Encode(f Format, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(headerLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(byte(f))

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// Decode validates the frame and returns its format and payload.
// Trailing bytes after the declared payload are rejected.
func Decode(b []byte) (Format, []byte, error) {
	if len(b) < headerLen || !hasMagic(b) || b[4] != version {
		return 0, nil, ErrCorrupt
	}
	f := Format(b[5])
	if f < FormatJSON || f > FormatRaw {
		return 0, nil, ErrCorrupt
	}

	off := 6
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off {
		return 0, nil, ErrCorrupt
	}
	return f, b[off : off+vlen], nil
}

// IsFramed reports whether b starts with a frame header.
func IsFramed(b []byte) bool {
	return len(b) >= headerLen && hasMagic(b) && b[4] == version
}
