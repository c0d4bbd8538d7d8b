package codec

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/proto"

	"github.com/unkn0wn-root/memocache/internal/wire"
)

// Tagged is the default Serializer. Every payload is framed with an explicit
// format byte, so decode never has to guess which codec produced the bytes.
//
// Encode policy:
//   - map values            -> structured codec (JSON by default)
//   - proto.Message values  -> Protobuf
//   - []byte values         -> Raw
//   - everything else       -> object codec (Msgpack by default)
//
// Decode dispatches on the frame's format byte, so entries written with a
// different object codec (e.g. CBOR) are still readable.
//
// The object codecs only carry exported struct fields: a struct with
// unexported fields decodes with those fields left at their zero value.
type Tagged struct {
	structured Codec
	object     Codec
	decoders   map[Format]Codec
}

var _ Serializer = (*Tagged)(nil)

// TaggedOption configures a Tagged serializer.
type TaggedOption func(*Tagged)

// WithObjectCodec sets the codec used for values that are not maps,
// messages or byte slices.
func WithObjectCodec(c Codec) TaggedOption {
	return func(t *Tagged) { t.object = c }
}

// WithStructuredCodec sets the codec used for map values.
func WithStructuredCodec(c Codec) TaggedOption {
	return func(t *Tagged) { t.structured = c }
}

func NewTagged(opts ...TaggedOption) *Tagged {
	t := &Tagged{
		structured: JSON{},
		object:     Msgpack{},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.decoders = map[Format]Codec{
		FormatJSON:    JSON{},
		FormatMsgpack: Msgpack{},
		FormatProto:   Protobuf{},
		FormatRaw:     Raw{},
	}
	if cb, err := NewCBOR(false); err == nil {
		t.decoders[FormatCBOR] = cb
	}
	t.decoders[t.structured.Format()] = t.structured
	t.decoders[t.object.Format()] = t.object
	return t
}

// FormatOf reports which format Encode would use for v.
func (t *Tagged) FormatOf(v any) Format {
	return t.codecFor(v).Format()
}

func (t *Tagged) codecFor(v any) Codec {
	switch v.(type) {
	case []byte:
		return t.decoders[FormatRaw]
	case proto.Message:
		return t.decoders[FormatProto]
	}
	if v != nil && reflect.TypeOf(v).Kind() == reflect.Map {
		return t.structured
	}
	return t.object
}

func (t *Tagged) Encode(v any) ([]byte, error) {
	c := t.codecFor(v)
	payload, err := c.Encode(v)
	if err != nil {
		return nil, err
	}
	return wire.Encode(c.Format(), payload), nil
}

func (t *Tagged) Decode(b []byte, dst any) error {
	f, payload, err := wire.Decode(b)
	if err != nil {
		return err
	}
	c, ok := t.decoders[f]
	if !ok {
		return fmt.Errorf("%w: no decoder for format %s", ErrCorrupt, f)
	}
	return decodeWith(c, payload, dst)
}
