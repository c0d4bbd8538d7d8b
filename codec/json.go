package codec

import "encoding/json"

// JSON is the structured-text codec. The zero value is ready to use.
type JSON struct{}

var _ Codec = JSON{}

func (JSON) Format() Format                 { return FormatJSON }
func (JSON) Encode(v any) ([]byte, error)   { return json.Marshal(v) }
func (JSON) Decode(b []byte, dst any) error { return json.Unmarshal(b, dst) }
