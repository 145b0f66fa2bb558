package roadshape

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all log records
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger of the package. By default nothing is logged.
// Pass nil to disable logging.
//
// Levels:
//   - [slog.LevelDebug]: per-node connector and junction details
//   - [slog.LevelInfo]: loading and drawing progress
//   - [slog.LevelWarn]: malformed tag values which have been ignored
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns current logger of the package
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
