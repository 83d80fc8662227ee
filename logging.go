package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"markestedt/typeclip/config"
	"markestedt/typeclip/logsink"
)

// setupLogging installs the default logger. Records go to stdout, or to the
// configured file, and are teed to sink. The returned file, if any, must be
// closed by the caller.
func setupLogging(cfg config.LogConfig, sink *logsink.Sink) (*os.File, error) {
	var (
		w       io.Writer = os.Stdout
		logFile *os.File
	)

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(cfg.File), err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		w = f
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})
	slog.SetDefault(slog.New(logsink.NewHandler(handler, sink)))
	return logFile, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
