package config

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger builds the process logger: human-readable text on stderr plus
// a JSON stream appended to logFile for later inspection. The returned
// cleanup closes the log file and should run at shutdown.
//
// An unwritable log path must not keep the assistant from starting, so on
// open failure the logger degrades to stderr only.
func SetupLogger(logFile string, level slog.Level) (*slog.Logger, func() error) {
	opts := &slog.HandlerOptions{Level: level}
	console := slog.NewTextHandler(os.Stderr, opts)

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Warn("log file unavailable, logging to stderr only", "file", logFile, "error", err)
		return slog.New(console), func() error { return nil }
	}

	logger := slog.New(slogmulti.Fanout(
		console,
		slog.NewJSONHandler(file, opts),
	))
	return logger, file.Close
}

// SetupLoggerWithWriters is SetupLogger with injectable writers, letting
// tests capture both streams.
func SetupLoggerWithWriters(console, file io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	return slog.New(slogmulti.Fanout(
		slog.NewTextHandler(console, opts),
		slog.NewJSONHandler(file, opts),
	))
}
