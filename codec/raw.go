package codec

import "fmt"

// Raw stores []byte values unchanged. Decode accepts *[]byte or *any.
type Raw struct{}

var _ Codec = Raw{}

func (Raw) Format() Format { return FormatRaw }

func (Raw) Encode(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: raw codec expects []byte, got %T", ErrUnsupported, v)
	}
	return b, nil
}

func (Raw) Decode(b []byte, dst any) error {
	cp := append([]byte(nil), b...)
	switch d := dst.(type) {
	case *[]byte:
		*d = cp
	case *any:
		*d = cp
	default:
		return fmt.Errorf("%w: raw codec cannot decode into %T", ErrUnsupported, dst)
	}
	return nil
}
