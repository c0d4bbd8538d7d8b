package zap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unkn0wn-root/memocache"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.Debug("d", nil)
	l.Info("i", memocache.Fields{"key": "app:x"})
	l.Warn("w", memocache.Fields{"err": errors.New("boom"), "size": 3})
	l.Error("e", memocache.Fields{})

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)

	ctx := entries[1].ContextMap()
	assert.Equal(t, "app:x", ctx["key"])
	assert.Equal(t, "memocache", ctx["component"])

	warn := entries[2].ContextMap()
	assert.Equal(t, "boom", warn["err"])
	assert.EqualValues(t, 3, warn["size"])
}

func TestLevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := Logger{L: zap.New(core)}

	l.Debug("hidden", nil)
	l.Info("hidden", nil)
	l.Warn("shown", nil)
	assert.Equal(t, 1, logs.Len())
}
