// Package zap adapts a *zap.Logger to memocache.Logger.
package zap

import (
	"sort"

	"github.com/unkn0wn-root/memocache"
	"go.uber.org/zap"
)

var _ memocache.Logger = Logger{}

type Logger struct{ L *zap.Logger }

// New returns an adapter that tags every entry with component=memocache.
func New(l *zap.Logger) Logger {
	return Logger{L: l.With(zap.String("component", "memocache"))}
}

func (z Logger) Debug(msg string, f memocache.Fields) { z.L.Debug(msg, zf(f)...) }
func (z Logger) Info(msg string, f memocache.Fields)  { z.L.Info(msg, zf(f)...) }
func (z Logger) Warn(msg string, f memocache.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z Logger) Error(msg string, f memocache.Fields) { z.L.Error(msg, zf(f)...) }

// zf converts fields in key order; errors become zap.NamedError.
func zf(f memocache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
