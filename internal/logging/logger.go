// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Level is the minimum level emitted. Defaults to DefaultLevel.
	Level Level
	// Output receives log lines. Defaults to os.Stderr.
	Output io.Writer
	// File, when set, also receives every log line, rotated by lumberjack.
	File string
	// MaxSizeMB is the size at which File is rotated. Defaults to 10.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept. Defaults to 3.
	MaxBackups int
	// JSON switches the formatter to JSON lines.
	JSON bool
	// ReportTimestamp prefixes each line with a timestamp.
	ReportTimestamp bool
}

// Logger is the sink the lifecycle runner logs through.
type Logger struct {
	base *log.Logger
	file *lumberjack.Logger
}

// New creates a Logger. It only fails on an invalid level.
func New(opts Options) (*Logger, error) {
	level := opts.Level
	if level == "" {
		level = DefaultLevel
	}
	if err := level.Validate(); err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var file *lumberjack.Logger
	if opts.File != "" {
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		if file.MaxSize <= 0 {
			file.MaxSize = 10
		}
		if file.MaxBackups <= 0 {
			file.MaxBackups = 3
		}
		out = io.MultiWriter(out, file)
	}

	formatter := log.TextFormatter
	if opts.JSON {
		formatter = log.JSONFormatter
	}

	base := log.NewWithOptions(out, log.Options{
		Level:           level.charmLevel(),
		ReportTimestamp: opts.ReportTimestamp,
		Formatter:       formatter,
	})

	return &Logger{base: base, file: file}, nil
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	base := log.NewWithOptions(io.Discard, log.Options{Level: silentLevel})
	return &Logger{base: base}
}

// Silly logs at the finest level. args are joined with spaces.
func (l *Logger) Silly(prefix string, args ...any) {
	l.base.WithPrefix(prefix).Debug(join(args))
}

// Verbose logs detail that is useful when diagnosing a run.
func (l *Logger) Verbose(prefix string, args ...any) {
	l.base.WithPrefix(prefix).Debug(join(args))
}

// Info logs a formatted informational line.
func (l *Logger) Info(prefix, format string, args ...any) {
	l.base.WithPrefix(prefix).Infof(format, args...)
}

// Warn logs a formatted warning.
func (l *Logger) Warn(prefix, format string, args ...any) {
	l.base.WithPrefix(prefix).Warnf(format, args...)
}

// Error logs a formatted error line.
func (l *Logger) Error(prefix, format string, args ...any) {
	l.base.WithPrefix(prefix).Errorf(format, args...)
}

// Slog returns a log/slog logger writing through the same handler.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(l.base)
}

// SetDefault installs the logger as the log/slog default.
func (l *Logger) SetDefault() {
	slog.SetDefault(l.Slog())
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func join(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	return strings.Join(parts, " ")
}
