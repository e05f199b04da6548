// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	LevelSilent  Level = "silent"
	LevelError   Level = "error"
	LevelWarn    Level = "warn"
	LevelNotice  Level = "notice"
	LevelHTTP    Level = "http"
	LevelInfo    Level = "info"
	LevelVerbose Level = "verbose"
	LevelSilly   Level = "silly"

	// DefaultLevel is used when no level is configured.
	DefaultLevel = LevelNotice

	// silentLevel is above every level the logger emits.
	silentLevel = log.FatalLevel + 1
)

// ErrInvalidLevel is the sentinel error wrapped by InvalidLevelError.
var ErrInvalidLevel = errors.New("invalid log level")

type (
	// Level is an npm-style log level name.
	Level string

	// InvalidLevelError is returned when a Level is not recognized.
	InvalidLevelError struct {
		Value Level
	}
)

// Error implements the error interface.
func (e *InvalidLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: silent, error, warn, notice, http, info, verbose, silly)", e.Value)
}

// Unwrap returns ErrInvalidLevel for errors.Is() compatibility.
func (e *InvalidLevelError) Unwrap() error { return ErrInvalidLevel }

// ParseLevel parses a level name case-insensitively. The empty string yields DefaultLevel.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return DefaultLevel, nil
	}
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if err := l.Validate(); err != nil {
		return "", err
	}
	return l, nil
}

// Validate returns an error if the level is not recognized.
func (l Level) Validate() error {
	switch l {
	case LevelSilent, LevelError, LevelWarn, LevelNotice, LevelHTTP, LevelInfo, LevelVerbose, LevelSilly:
		return nil
	default:
		return &InvalidLevelError{Value: l}
	}
}

// charmLevel maps the level onto charmbracelet/log. notice, http and info share
// the info level; verbose and silly share debug.
func (l Level) charmLevel() log.Level {
	switch l {
	case LevelSilent:
		return silentLevel
	case LevelError:
		return log.ErrorLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelVerbose, LevelSilly:
		return log.DebugLevel
	default:
		return log.InfoLevel
	}
}
