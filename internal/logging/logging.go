// SPDX-License-Identifier: EPL-2.0

// Package logging builds the process-wide slog logger from configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ParseLevel maps "error", "warn", "info" and "debug" to slog levels.
// "none" reports ok=false.
func ParseLevel(level string) (lvl slog.Level, ok bool, err error) {
	switch level {
	case "none":
		return 0, false, nil
	case "error":
		return slog.LevelError, true, nil
	case "warn":
		return slog.LevelWarn, true, nil
	case "info":
		return slog.LevelInfo, true, nil
	case "debug":
		return slog.LevelDebug, true, nil
	}

	return 0, false, fmt.Errorf("unexpected log level %q", level)
}

// New returns a logger at level. An empty logFile selects a text handler on
// w; otherwise logs go to logFile as JSON and the opened file is returned so
// the caller can close it. Level "none" discards everything.
func New(level, logFile string, w io.Writer, opts slog.HandlerOptions) (*slog.Logger, *os.File, error) {
	lvl, enabled, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if !enabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil
	}
	opts.Level = lvl

	if logFile == "" {
		return slog.New(slog.NewTextHandler(w, &opts)), nil, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	return slog.New(slog.NewJSONHandler(f, &opts)), f, nil
}

// ConfigureDefault installs New's logger as slog.Default.
func ConfigureDefault(level, logFile string, w io.Writer, opts slog.HandlerOptions) (*os.File, error) {
	logger, f, err := New(level, logFile, w, opts)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)
	return f, nil
}
