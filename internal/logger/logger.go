package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Init installs the default JSON logger on stderr. Stdout stays reserved
// for decision JSON and streamed tokens, so piping the CLI keeps working
// with logging enabled. LOG_LEVEL selects debug, info, warn, or error.
func Init() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
