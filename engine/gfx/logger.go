package gfx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record; Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by gfx and its backends. By default
// nothing is logged; pass nil to restore that.
//
// Levels:
//   - [slog.LevelDebug]: texture creation, atlas exhaustion, flush counts
//   - [slog.LevelInfo]: device and window lifecycle
//   - [slog.LevelWarn]: non-fatal resource problems
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Backends and engine packages share it.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
