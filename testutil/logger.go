package testutil

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"go.ntppool.org/common/logger"
)

// NewLogger returns a logger that only shows warnings and errors, so test
// output stays readable.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// Context returns a context carrying NewLogger, cancelled when the test
// ends.
func Context(t testing.TB) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return logger.NewContext(ctx, NewLogger())
}
