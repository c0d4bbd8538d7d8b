package codec

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type point struct {
	X    int
	Y    int
	Name string
}

func TestTaggedFormatSelection(t *testing.T) {
	s := NewTagged()
	cases := []struct {
		name string
		v    any
		want Format
	}{
		{"map", map[string]any{"msg": "hi"}, FormatJSON},
		{"typed map", map[string]int{"a": 1}, FormatJSON},
		{"struct", point{X: 1}, FormatMsgpack},
		{"slice", []int{1, 2}, FormatMsgpack},
		{"scalar", 42, FormatMsgpack},
		{"nil", nil, FormatMsgpack},
		{"bytes", []byte("x"), FormatRaw},
		{"proto", wrapperspb.String("hi"), FormatProto},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.FormatOf(tc.v); got != tc.want {
				t.Fatalf("FormatOf(%T) = %v, want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestTaggedRoundTripMap(t *testing.T) {
	s := NewTagged()
	in := map[string]any{"msg": "hi", "nested": map[string]any{"lang": "en"}}
	b, err := s.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out map[string]any
	if err := s.Decode(b, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: got %v want %v", out, in)
	}
}

func TestTaggedRoundTripObjects(t *testing.T) {
	s := NewTagged()

	p := point{X: 3, Y: -4, Name: "p"}
	b, err := s.Encode(p)
	if err != nil {
		t.Fatalf("Encode struct: %v", err)
	}
	var gotP point
	if err := s.Decode(b, &gotP); err != nil || gotP != p {
		t.Fatalf("struct round trip: got %+v err=%v", gotP, err)
	}

	list := []string{"a", "b", "c"}
	b, err = s.Encode(list)
	if err != nil {
		t.Fatalf("Encode list: %v", err)
	}
	var gotList []string
	if err := s.Decode(b, &gotList); err != nil || !reflect.DeepEqual(gotList, list) {
		t.Fatalf("list round trip: got %v err=%v", gotList, err)
	}

	b, err = s.Encode(0)
	if err != nil {
		t.Fatalf("Encode zero: %v", err)
	}
	n := -1
	if err := s.Decode(b, &n); err != nil || n != 0 {
		t.Fatalf("zero round trip: got %d err=%v", n, err)
	}
}

func TestTaggedRoundTripBytesAndProto(t *testing.T) {
	s := NewTagged()

	b, err := s.Encode([]byte{0xff, 0x00, 0x10})
	if err != nil {
		t.Fatalf("Encode bytes: %v", err)
	}
	var raw []byte
	if err := s.Decode(b, &raw); err != nil || !bytes.Equal(raw, []byte{0xff, 0x00, 0x10}) {
		t.Fatalf("bytes round trip: got %x err=%v", raw, err)
	}

	msg := wrapperspb.String("hello")
	b, err = s.Encode(msg)
	if err != nil {
		t.Fatalf("Encode proto: %v", err)
	}
	var got *wrapperspb.StringValue
	if err := s.Decode(b, &got); err != nil {
		t.Fatalf("Decode proto: %v", err)
	}
	if !proto.Equal(msg, got) {
		t.Fatalf("proto round trip: got %v want %v", got, msg)
	}

	into := &wrapperspb.StringValue{}
	if err := s.Decode(b, into); err != nil || into.GetValue() != "hello" {
		t.Fatalf("decode into message: got %v err=%v", into, err)
	}
}

func TestTaggedReadsOtherObjectCodec(t *testing.T) {
	writer := NewTagged(WithObjectCodec(MustCBOR(true)))
	reader := NewTagged()

	p := point{X: 1, Y: 2, Name: "cbor"}
	b, err := writer.Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if writer.FormatOf(p) != FormatCBOR {
		t.Fatalf("expected CBOR object codec")
	}
	var got point
	if err := reader.Decode(b, &got); err != nil || got != p {
		t.Fatalf("cross-codec decode: got %+v err=%v", got, err)
	}
}

func TestTaggedRejectsUnframed(t *testing.T) {
	s := NewTagged()
	var out map[string]any
	err := s.Decode([]byte(`{"msg":"hi"}`), &out)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestTaggedDecodeTypeMismatch(t *testing.T) {
	s := NewTagged()
	b, err := s.Encode([]byte("x"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var n int
	if err := s.Decode(b, &n); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestSniffingDispatch(t *testing.T) {
	s := NewSniffing()

	b, err := s.Encode(map[string]string{"msg": "hi"})
	if err != nil {
		t.Fatalf("Encode map: %v", err)
	}
	if string(b) != `{"msg":"hi"}` {
		t.Fatalf("map should be stored as plain JSON text, got %q", b)
	}
	var m map[string]string
	if err := s.Decode(b, &m); err != nil || m["msg"] != "hi" {
		t.Fatalf("map decode: got %v err=%v", m, err)
	}

	p := point{X: 7, Name: "obj"}
	b, err = s.Encode(p)
	if err != nil {
		t.Fatalf("Encode struct: %v", err)
	}
	var got point
	if err := s.Decode(b, &got); err != nil || got != p {
		t.Fatalf("struct decode: got %+v err=%v", got, err)
	}
}

// Binary payloads that are valid UTF-8 are routed to the JSON decoder.
func TestSniffingMisroutesUTF8Binary(t *testing.T) {
	s := NewSniffing()
	b, err := s.Encode(5) // msgpack positive fixint: single byte 0x05
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var n int
	if err := s.Decode(b, &n); err == nil {
		t.Fatalf("expected decode failure for UTF-8-valid binary payload")
	}
}

func TestLimitRejectsOversized(t *testing.T) {
	l := Limit{Inner: NewTagged(), MaxDecode: 16}
	b, err := l.Encode("a fairly long string value that exceeds the limit")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var s string
	if err := l.Decode(b, &s); err == nil {
		t.Fatalf("expected size limit error")
	}

	small, _ := l.Encode("ok")
	if err := l.Decode(small, &s); err != nil || s != "ok" {
		t.Fatalf("small payload: got %q err=%v", s, err)
	}
}

type named struct{ Name string }

func (n named) String() string { return n.Name }

func TestDecodeIntoNonEmptyInterfaceFailsWithoutPanic(t *testing.T) {
	for _, s := range []Serializer{NewTagged(), NewSniffing()} {
		b, err := s.Encode(named{Name: "x"})
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		var dst fmt.Stringer
		if err := s.Decode(b, &dst); !errors.Is(err, ErrUnsupported) {
			t.Fatalf("%T: expected ErrUnsupported, got %v", s, err)
		}
	}
}
