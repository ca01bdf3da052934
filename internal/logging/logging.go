// Package logging builds the application logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/subham-proj/barelytics-server/internal/config"
)

// ParseLevel converts a config level name to a slog.Level
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates the application *slog.Logger. In production it writes
// JSON to a size-rotated file under the configured logs directory; in
// development and test it writes text to stdout.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := ParseLevel(string(cfg.LogLevel))

	if cfg.IsProduction() {
		writer := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogsDirectory, cfg.AppName+".log"),
			MaxSize:    cfg.LogsMaxSizeInMb,
			MaxBackups: cfg.LogsMaxBackups,
			MaxAge:     cfg.LogsMaxAgeInDays,
			Compress:   true,
		}
		return slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level}))
	}

	var out io.Writer = os.Stdout
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}
