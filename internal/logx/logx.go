// Package logx is the shared logging facade for the stroke rendering
// core. By default it is silent; a host application opts in by calling
// SetLogger. All sub-packages read the active logger through Logger()
// so that a single call configures the whole module.
package logx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled returns false so callers
// skip attribute formatting entirely when logging is off.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger installs the logger used by every package in this module.
// Pass nil to restore the silent default. Safe for concurrent use.
//
// Levels:
//   - Debug: per-sample/per-stamp diagnostics (stamp counts, cache hits)
//   - Info: lifecycle events (GPU backend selected, worker started)
//   - Warn: recoverable degradation (CPU fallback, missing style, clip
//     depth exceeded)
//   - Error: propagated only for FatalInternal kinds (shader link failure)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the currently active logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
