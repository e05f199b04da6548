// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger_SillyHiddenAtDefaultLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Silly("run-lifecycle", "build", "pkg-a")
	if buf.Len() != 0 {
		t.Errorf("silly line emitted at notice level: %q", buf.String())
	}

	logger.Error("lifecycle", "%q errored in %q, exiting %d", "build", "pkg-a", 2)
	out := buf.String()
	if !strings.Contains(out, "lifecycle:") || !strings.Contains(out, `"build" errored in "pkg-a", exiting 2`) {
		t.Errorf("unexpected error line: %q", out)
	}
}

func TestLogger_SillyAtSillyLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(Options{Level: LevelSilly, Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Silly("run-lifecycle", "build", "pkg-a")
	out := buf.String()
	if !strings.Contains(out, "run-lifecycle:") || !strings.Contains(out, "build pkg-a") {
		t.Errorf("unexpected silly line: %q", out)
	}
}

func TestLogger_Silent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(Options{Level: LevelSilent, Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Error("lifecycle", "boom")
	logger.Warn("lifecycle", "careful")
	if buf.Len() != 0 {
		t.Errorf("silent logger wrote %q", buf.String())
	}
}

func TestLogger_InvalidLevel(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{Level: "loud"}); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("New() error = %v, want ErrInvalidLevel", err)
	}
}

func TestLogger_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.log")
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf, File: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Warn("config", "using %s", "defaults")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "using defaults") {
		t.Errorf("log file = %q, want the warning", data)
	}
	if !strings.Contains(buf.String(), "using defaults") {
		t.Errorf("output = %q, want the warning", buf.String())
	}
}

func TestLogger_Slog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(Options{Level: LevelVerbose, Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Slog().Debug("script skipped", "stage", "prepublish")
	if !strings.Contains(buf.String(), "script skipped") || !strings.Contains(buf.String(), "stage=prepublish") {
		t.Errorf("slog output = %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	logger := Discard()
	logger.Error("lifecycle", "dropped")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
