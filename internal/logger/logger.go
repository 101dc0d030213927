package logger

import (
	"log/slog"
	"os"
	"strings"
)

// SetupDefault installs the process-wide slog logger. Level is one of
// debug/info/warn/error; plaintext switches from JSON to text output.
func SetupDefault(level string, plaintext bool) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if plaintext {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, opts)))
	} else {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, opts)))
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
