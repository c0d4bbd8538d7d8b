// Package codec converts cached values to and from bytes.
//
// A Codec handles a single wire format. A Serializer picks a codec per value
// on encode and finds it again on decode; Tagged (the default) records the
// choice in a frame header, Sniffing infers it from the payload.
package codec

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/memocache/internal/wire"
)

// Format identifies a codec inside a Tagged frame.
type Format = wire.Format

const (
	FormatJSON    = wire.FormatJSON
	FormatMsgpack = wire.FormatMsgpack
	FormatCBOR    = wire.FormatCBOR
	FormatProto   = wire.FormatProto
	FormatRaw     = wire.FormatRaw
)

var (
	// ErrCorrupt is returned when stored bytes are not a valid frame.
	ErrCorrupt = wire.ErrCorrupt
	// ErrUnsupported is returned when a codec cannot handle a value or destination.
	ErrUnsupported = errors.New("codec: unsupported value")
)

// Codec encodes/decodes values to []byte for a single format.
// dst passed to Decode must be a non-nil pointer.
type Codec interface {
	Format() Format
	Encode(v any) ([]byte, error)
	Decode(b []byte, dst any) error
}

// Serializer converts arbitrary values to stored bytes and back.
type Serializer interface {
	Encode(v any) ([]byte, error)
	Decode(b []byte, dst any) error
}

// decodeWith runs c.Decode and turns a panic inside the codec into an
// ErrUnsupported error. Some codecs panic instead of failing when dst
// cannot hold the decoded value (e.g. a pointer to a non-empty interface).
func decodeWith(c Codec, b []byte, dst any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s decode into %T: %v", ErrUnsupported, c.Format(), dst, r)
		}
	}()
	return c.Decode(b, dst)
}
