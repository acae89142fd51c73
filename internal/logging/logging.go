// Package logging builds the structured logger for one node-util invocation.
// Records go to stderr as text, or as JSON to a rotating file when one is configured.
// Every record carries the invocation's run id.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/conn-castle/node-util/internal/messages"
	"github.com/conn-castle/node-util/internal/settings"
)

// RunIDKey is the attribute naming the invocation a record belongs to.
const RunIDKey = "run_id"

// Options configures Setup.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Stderr     io.Writer
}

// OptionsFromSettings copies the [log] settings into Options.
func OptionsFromSettings(s settings.LogSettings, stderr io.Writer) Options {
	return Options{
		Level:      s.Level,
		File:       s.File,
		MaxSizeMB:  s.MaxSizeMB,
		MaxBackups: s.MaxBackups,
		MaxAgeDays: s.MaxAgeDays,
		Stderr:     stderr,
	}
}

var newRunID = func() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Setup returns a logger and a close func releasing any file it opened.
func Setup(opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	runID, err := newRunID()
	if err != nil {
		return nil, nil, fmt.Errorf(messages.LoggingRunIDFmt, err)
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	closeFn := func() error { return nil }
	var handler slog.Handler
	if strings.TrimSpace(opts.File) != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf(messages.LoggingCreateDirFmt, opts.File, err)
		}
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		handler = slog.NewJSONHandler(rotating, handlerOpts)
		closeFn = rotating.Close
	} else {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		handler = slog.NewTextHandler(stderr, handlerOpts)
	}
	return slog.New(handler).With(RunIDKey, runID), closeFn, nil
}

// ParseLevel maps a settings level name to a slog.Level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf(messages.LoggingInvalidLevelFmt, name)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
