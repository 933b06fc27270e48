package barrage

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/barrage/surface"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for barrage and its surface backends.
// By default, barrage produces no log output.
//
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by barrage:
//   - [slog.LevelDebug]: data commits, overlap reassignments, ignored config keys
//   - [slog.LevelInfo]: lifecycle events (mask loaded, backend selected)
//   - [slog.LevelWarn]: non-fatal issues (unusable mask, failed mask load)
//
// Example:
//
//	barrage.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	surface.SetLogger(l)
}

// Logger returns the current logger used by barrage.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// slogger is the internal shorthand for Logger.
func slogger() *slog.Logger { return loggerPtr.Load() }
