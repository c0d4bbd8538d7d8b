package codec

import (
	"reflect"
	"unicode/utf8"
)

// Sniffing reads and writes untagged payloads: maps are written as
// structured text, everything else with the object codec. Decode treats any
// valid UTF-8 payload as structured text and falls back to the object codec
// otherwise.
//
// Object-codec payloads that happen to be valid UTF-8 are routed to the
// structured decoder and fail there. Prefer Tagged unless the store is shared
// with writers using the untagged layout.
type Sniffing struct {
	Structured Codec
	Object     Codec
}

var _ Serializer = Sniffing{}

func NewSniffing() Sniffing {
	return Sniffing{Structured: JSON{}, Object: Msgpack{}}
}

func (s Sniffing) Encode(v any) ([]byte, error) {
	if v != nil && reflect.TypeOf(v).Kind() == reflect.Map {
		return s.Structured.Encode(v)
	}
	return s.Object.Encode(v)
}

func (s Sniffing) Decode(b []byte, dst any) error {
	if utf8.Valid(b) {
		return decodeWith(s.Structured, b, dst)
	}
	return decodeWith(s.Object, b, dst)
}
