package memocache

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

const sep = ':'

// Param is one named key parameter. Only Value ends up in the key.
type Param struct {
	Name  string
	Value any
}

// Params is an ordered parameter list. Order is significant: the same
// values in a different order produce a different key.
type Params []Param

// P is shorthand for Param{Name: name, Value: value}.
func P(name string, value any) Param { return Param{Name: name, Value: value} }

// With returns a copy of ps with one more parameter appended.
func (ps Params) With(name string, value any) Params {
	out := make(Params, len(ps), len(ps)+1)
	copy(out, ps)
	return append(out, Param{Name: name, Value: value})
}

// BuildKey composes "<namespace>[:<prefix>]:<key>[:<param>...]".
// Empty namespace or prefix omits that segment.
func BuildKey(namespace, key, prefix string, params Params) string {
	var b strings.Builder
	b.Grow(len(namespace) + len(prefix) + len(key) + 2 + 8*len(params))
	if namespace != "" {
		b.WriteString(namespace)
		b.WriteByte(sep)
	}
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteByte(sep)
	}
	b.WriteString(key)
	for _, p := range params {
		b.WriteByte(sep)
		b.WriteString(formatParam(p.Value))
	}
	return b.String()
}

// formatParam renders a parameter value. nil renders as "nil" and plain
// pointers are followed, so *int(5) and 5 produce the same segment.
func formatParam(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if x == nil {
			return "nil"
		}
		return x.UTC().Format(time.RFC3339Nano)
	case time.Duration:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	isPtr := rv.Kind() == reflect.Pointer
	if isPtr && rv.IsNil() {
		return "nil"
	}
	switch x := v.(type) {
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	}
	if isPtr {
		return formatParam(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}
