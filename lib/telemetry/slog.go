package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog sets the default slog logger, debug messages are only shown
// when `verbose` is true.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
