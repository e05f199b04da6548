// SPDX-License-Identifier: MPL-2.0

package scriptexec

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/runlifecycle/runlifecycle/internal/issue"
	"github.com/runlifecycle/runlifecycle/internal/lifecycle"
	"github.com/runlifecycle/runlifecycle/pkg/manifest"
)

func newTestExecutor(stdout *bytes.Buffer) *Executor {
	return &Executor{
		Stdout:  stdout,
		Stderr:  &bytes.Buffer{},
		Environ: func() []string { return []string{"HOME=/nonexistent", "PATH=" + os.Getenv("PATH")} },
	}
}

func newTestPackage(dir string, scripts map[string]string) *manifest.Package {
	return &manifest.Package{Name: "pkg-a", Version: "0.1.0", Location: dir, Scripts: scripts}
}

func execOptions(dir string, raw map[string]any) lifecycle.ExecOptions {
	conf := lifecycle.Normalize(raw, dir)
	return lifecycle.ExecOptions{Passthrough: conf.Passthrough(), Config: conf, Dir: dir}
}

func TestExecuteVirtual(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var stdout bytes.Buffer
	e := newTestExecutor(&stdout)
	pkg := newTestPackage(dir, map[string]string{
		"build": `echo "$npm_lifecycle_event $npm_package_name $npm_config_tag"; echo built > out.txt`,
	})

	err := e.Execute(t.Context(), pkg, "build", dir, execOptions(dir, map[string]any{"tag": "next"}))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != "build pkg-a next" {
		t.Errorf("stdout = %q, want %q", got, "build pkg-a next")
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	if err != nil {
		t.Fatalf("script did not run in the package dir: %v", err)
	}
	if strings.TrimSpace(string(data)) != "built" {
		t.Errorf("out.txt = %q, want built", data)
	}
}

func TestExecuteVirtualExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
		want   int
	}{
		{"explicit exit", "exit 3", 3},
		{"false", "false", 1},
		{"parse error", "if then fi (", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			e := newTestExecutor(&bytes.Buffer{})
			pkg := newTestPackage(dir, map[string]string{"test": tt.script})

			err := e.Execute(t.Context(), pkg, "test", dir, execOptions(dir, nil))

			var scriptErr *ScriptError
			if !errors.As(err, &scriptErr) {
				t.Fatalf("Execute() error = %v, want *ScriptError", err)
			}
			if scriptErr.ExitCode() != tt.want {
				t.Errorf("ExitCode() = %d, want %d", scriptErr.ExitCode(), tt.want)
			}
			if !errors.Is(err, ErrScriptFailed) {
				t.Error("error does not match ErrScriptFailed")
			}
			if scriptErr.Stage != "test" || scriptErr.Package != "pkg-a@0.1.0" {
				t.Errorf("ScriptError = %+v", scriptErr)
			}
		})
	}
}

func TestExecuteSkips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stage string
		raw   map[string]any
	}{
		{"ignore scripts", "build", map[string]any{"ignoreScripts": true}},
		{"ignore prepublish", "prepublish", map[string]any{"ignore-prepublish": true}},
		{"missing stage", "install", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			e := newTestExecutor(&bytes.Buffer{})
			pkg := newTestPackage(dir, map[string]string{"build": "exit 9", "prepublish": "exit 9"})

			if err := e.Execute(t.Context(), pkg, tt.stage, dir, execOptions(dir, tt.raw)); err != nil {
				t.Errorf("Execute() error = %v, want skipped", err)
			}
		})
	}
}

func TestExecuteIgnorePrepublishOnlyAffectsPrepublish(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e := newTestExecutor(&bytes.Buffer{})
	pkg := newTestPackage(dir, map[string]string{"build": "exit 4"})

	err := e.Execute(t.Context(), pkg, "build", dir, execOptions(dir, map[string]any{"ignorePrepublish": true}))
	var scriptErr *ScriptError
	if !errors.As(err, &scriptErr) || scriptErr.Code != 4 {
		t.Errorf("Execute() error = %v, want exit code 4", err)
	}
}

func TestExecuteNative(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell test")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	var stdout bytes.Buffer
	e := newTestExecutor(&stdout)
	pkg := newTestPackage(dir, map[string]string{"build": `echo "$NODE_OPTIONS"; exit 5`})

	err = e.Execute(t.Context(), pkg, "build", dir, execOptions(dir, map[string]any{
		"script-shell": sh,
		"nodeOptions":  "--trace-warnings",
	}))

	var scriptErr *ScriptError
	if !errors.As(err, &scriptErr) || scriptErr.Code != 5 {
		t.Fatalf("Execute() error = %v, want exit code 5", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != "--trace-warnings" {
		t.Errorf("stdout = %q, want --trace-warnings", got)
	}
}

func TestExecuteNativeShellNotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e := newTestExecutor(&bytes.Buffer{})
	pkg := newTestPackage(dir, map[string]string{"build": "true"})

	err := e.Execute(t.Context(), pkg, "build", dir, execOptions(dir, map[string]any{
		"scriptShell": "definitely-not-a-shell-runlifecycle",
	}))

	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("Execute() error = %v, want *issue.ActionableError", err)
	}
	if actionable.IssueID != issue.ShellNotFoundId {
		t.Errorf("IssueID = %d, want %d", actionable.IssueID, issue.ShellNotFoundId)
	}
}

func TestExecuteInterrupted(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell test")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"virtual", nil},
		{"native", map[string]any{"script-shell": sh}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			e := newTestExecutor(&bytes.Buffer{})
			pkg := newTestPackage(dir, map[string]string{"build": "sleep 5; exit 2"})

			ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
			defer cancel()

			start := time.Now()
			err := e.Execute(ctx, pkg, "build", dir, execOptions(dir, tt.raw))
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("Execute() error = %v, want context.DeadlineExceeded", err)
			}
			var scriptErr *ScriptError
			if errors.As(err, &scriptErr) {
				t.Errorf("Execute() reported exit code %d for an interrupted script", scriptErr.Code)
			}
			if errors.Is(err, ErrScriptFailed) {
				t.Error("interrupted script matches ErrScriptFailed")
			}
			if elapsed := time.Since(start); elapsed > 4*time.Second {
				t.Errorf("Execute() returned after %v, want the script killed", elapsed)
			}
		})
	}
}

func TestShellArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell string
		want  []string
	}{
		{"/bin/bash", []string{"-c"}},
		{"sh", []string{"-c"}},
		{`C:\Windows\System32\cmd.exe`, []string{"/d", "/s", "/c"}},
		{"CMD.EXE", []string{"/d", "/s", "/c"}},
		{"pwsh", []string{"-NoProfile", "-Command"}},
	}

	for _, tt := range tests {
		got := shellArgs(tt.shell)
		if strings.Join(got, " ") != strings.Join(tt.want, " ") {
			t.Errorf("shellArgs(%q) = %v, want %v", tt.shell, got, tt.want)
		}
	}
}
