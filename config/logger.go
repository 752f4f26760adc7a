package config

import (
	"log/slog"
	"os"
)

func logLevel() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process-wide slog.Logger. Production (GO_ENV) emits
// JSON for log shippers; every other environment gets the readable text
// handler. LOG_LEVEL picks the threshold: debug, info, warn, or error.
func NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevel()}
	if os.Getenv("GO_ENV") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
