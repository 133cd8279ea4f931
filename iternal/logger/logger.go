package logger

import (
	"app/iternal/config"
	"io"
	"log"
	"log/slog"
	"os"
)

// MustInitLogger builds the process logger from config: text + debug for dev,
// json + info for prod, optionally teeing into a log file.
func MustInitLogger(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.Log.FilePath != "" {
		file, err := os.OpenFile(cfg.Log.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatal("cannot open log file: ", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	var handler slog.Handler
	switch cfg.Env {
	case "prod":
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(handler)
}
