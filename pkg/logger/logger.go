package logger

import (
	"io"
	"os"
	"strings"

	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is usable before Init; it falls back to the slog default handler.
var Log = slog.Default()

func Init(logFilePath string, level string) {
	rotator := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   false,
	}
	writer := io.MultiWriter(os.Stdout, rotator)
	Log = slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
	slog.SetDefault(Log)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
