// Package logger constructs the process-wide structured logger.
package logger

import (
	"log/slog"
	"os"
)

// New returns a slog logger writing JSON to stdout. Level defaults to info;
// set CHARGENET_LOG_LEVEL=debug for verbose output.
func New() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("CHARGENET_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
