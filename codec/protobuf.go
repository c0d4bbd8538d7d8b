package codec

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/proto"
)

var protoMessageType = reflect.TypeOf((*proto.Message)(nil)).Elem()

// Protobuf encodes proto.Message values.
//
// Decode accepts either a message (e.g. &pb.User{}) or a pointer to a message
// pointer (e.g. *(*pb.User)), allocating the message when it is nil.
type Protobuf struct{}

var _ Codec = Protobuf{}

func (Protobuf) Format() Format { return FormatProto }

func (Protobuf) Encode(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("%w: protobuf codec expects proto.Message, got %T", ErrUnsupported, v)
	}
	return proto.Marshal(m)
}

func (Protobuf) Decode(b []byte, dst any) error {
	if m, ok := dst.(proto.Message); ok {
		return proto.Unmarshal(b, m)
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: protobuf codec cannot decode into %T", ErrUnsupported, dst)
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Pointer || !elem.Type().Implements(protoMessageType) {
		return fmt.Errorf("%w: protobuf codec cannot decode into %T", ErrUnsupported, dst)
	}
	if elem.IsNil() {
		elem.Set(reflect.New(elem.Type().Elem()))
	}
	return proto.Unmarshal(b, elem.Interface().(proto.Message))
}
