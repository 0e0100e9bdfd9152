package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards everything. Handy for tests
// that exercise components requiring a *slog.Logger.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
