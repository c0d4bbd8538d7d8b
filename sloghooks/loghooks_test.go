package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRedactsKeysByDefault(t *testing.T) {
	var buf bytes.Buffer
	h := New(newBufLogger(&buf), Options{})

	h.DecodeFailed("app:user:42", errors.New("corrupt"))
	out := buf.String()
	assert.Contains(t, out, "memocache.decode_failed")
	assert.Contains(t, out, "err=corrupt")
	assert.NotContains(t, out, "app:user:42")
}

func TestCustomRedactor(t *testing.T) {
	var buf bytes.Buffer
	h := New(newBufLogger(&buf), Options{Redact: func(k string) string { return k }})

	h.StoreFailed("get", "app:user:42", errors.New("down"))
	assert.Contains(t, buf.String(), "key=app:user:42")
	assert.Contains(t, buf.String(), "op=get")
}

func TestSampling(t *testing.T) {
	var buf bytes.Buffer
	h := New(newBufLogger(&buf), Options{HitEvery: 3})

	for i := 0; i < 9; i++ {
		h.Hit("k")
	}
	assert.Equal(t, 3, strings.Count(buf.String(), "memocache.hit"))
}

func TestNilLoggerIsNoop(t *testing.T) {
	h := New(nil, Options{})
	h.Miss("k")
	h.SetSkipped("k", "empty")
	h.ProviderSetRejected("k")
}
