package slog

import (
	"bytes"
	"encoding/json"
	stdslog "log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unkn0wn-root/memocache"
)

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	h := stdslog.NewJSONHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelInfo})
	l := Logger{L: stdslog.New(h)}

	l.Debug("hidden", memocache.Fields{"key": "a"})
	l.Info("deleted by prefix", memocache.Fields{"pattern": "app:greet:*", "removed": 3})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "deleted by prefix", rec["msg"])
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "app:greet:*", rec["pattern"])
	assert.EqualValues(t, 3, rec["removed"])
}
