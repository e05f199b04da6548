// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/runlifecycle/runlifecycle/internal/issue"
	"github.com/runlifecycle/runlifecycle/internal/lifecycle"
	"github.com/runlifecycle/runlifecycle/pkg/types"

	"github.com/charmbracelet/fang"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got := getVersionString(); got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q, want %q", got, "dev (built from source)")
		}
	})
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"exit error", &ExitError{Code: 2}, 2},
		{"wrapped exit error", fmt.Errorf("run: %w", &ExitError{Code: 127}), 127},
		{"out of range", &ExitError{Code: 300}, 1},
		{"zero code", &ExitError{Code: types.ExitSuccess}, 1},
		{"plain error", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		if got := exitCodeFor(tt.err); got != tt.want {
			t.Errorf("%s: exitCodeFor() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	styles := fang.Styles{}

	t.Run("validation error prints one line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		verr := &lifecycle.ValidationError{Stage: "build", Package: "a", Code: 2, Err: errors.New("exit status 2")}
		renderError(&buf, styles, &ExitError{Code: 2, Err: verr}, true)

		out := buf.String()
		if strings.Count(out, "\n") != 1 {
			t.Errorf("renderError() printed %q, want a single line", out)
		}
		if !strings.Contains(out, `"build" errored in "a", exiting 2`) {
			t.Errorf("renderError() = %q, want the summary line", out)
		}
		if strings.Contains(out, "exit status 2") {
			t.Errorf("renderError() printed the cause: %q", out)
		}
	})

	t.Run("bare exit error prints nothing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		renderError(&buf, styles, &ExitError{Code: 3}, false)
		if buf.Len() != 0 {
			t.Errorf("renderError() = %q, want nothing", buf.String())
		}
	})

	t.Run("actionable error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource("/tmp/config.cue").
			WithSuggestion("Check the syntax").
			Wrap(errors.New("unexpected token")).
			BuildError()
		renderError(&buf, styles, err, false)

		out := buf.String()
		for _, want := range []string{"load configuration", "/tmp/config.cue", "Check the syntax"} {
			if !strings.Contains(out, want) {
				t.Errorf("renderError() = %q, want it to contain %q", out, want)
			}
		}
	})
}

func TestSetupLoggingJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := &rootOptions{logLevel: "info", logJSON: true}
	if err := opts.setupLogging(&buf, true); err != nil {
		t.Fatalf("setupLogging() error = %v", err)
	}
	opts.logger.Info(runTag, "%s ran in %d of %d packages", "build", 1, 2)

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	if line["prefix"] != runTag || line["msg"] != "build ran in 1 of 2 packages" {
		t.Errorf("log line = %v", line)
	}
}
