// Package logging configures the process-wide logrus logger. The TUI owns the
// terminal, so log output always goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options select where and how verbosely to log.
type Options struct {
	File  string
	Level string
	// Stderr mirrors entries to stderr. The one-shot CLI commands use it; the
	// TUI must not.
	Stderr bool
}

// Setup points the standard logrus logger at opts.File. The returned func
// closes the file.
func Setup(opts Options) (func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	path := strings.TrimSpace(opts.File)
	if path == "" {
		if opts.Stderr {
			logrus.SetOutput(os.Stderr)
		} else {
			logrus.SetOutput(io.Discard)
		}
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	var out io.Writer = file
	if opts.Stderr {
		out = io.MultiWriter(file, os.Stderr)
	}
	logrus.SetOutput(out)
	return file.Close, nil
}

// ParseLevel accepts logrus level names. Empty means info.
func ParseLevel(value string) (logrus.Level, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse log level: %w", err)
	}
	return level, nil
}
