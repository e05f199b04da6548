// SPDX-License-Identifier: MPL-2.0

package scriptexec

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/runlifecycle/runlifecycle/internal/issue"
	"github.com/runlifecycle/runlifecycle/pkg/types"
)

// runNative hands the script to the configured system shell.
func runNative(ctx context.Context, req runRequest) error {
	args := append(shellArgs(req.shell), req.script)

	cmd := exec.CommandContext(ctx, req.shell, args...)
	cmd.Dir = req.dir
	cmd.Env = req.env
	cmd.Stdin = req.stdin
	cmd.Stdout = req.stdout
	cmd.Stderr = req.stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return interrupted(req, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ScriptError{
			Stage:   req.stage,
			Package: req.pkg,
			Script:  req.script,
			Code:    exitCode(exitErr.ExitCode()),
		}
	}

	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return issue.NewErrorContext().
			WithOperation("run " + req.stage + " script").
			WithResource(req.shell).
			WithSuggestion("Pass an absolute path to --script-shell").
			WithSuggestion("Unset script-shell to use the built-in shell").
			WithIssue(issue.ShellNotFoundId).
			Wrap(err).
			BuildError()
	case errors.Is(err, os.ErrPermission):
		return issue.NewErrorContext().
			WithOperation("run " + req.stage + " script").
			WithResource(req.dir).
			WithSuggestion("Check that " + req.shell + " is executable and the package directory is readable").
			WithIssue(issue.PermissionDeniedId).
			Wrap(err).
			BuildError()
	default:
		return &ScriptError{
			Stage:   req.stage,
			Package: req.pkg,
			Script:  req.script,
			Code:    types.ExitFailure,
			Err:     err,
		}
	}
}

// shellArgs returns the arguments placed before the script.
func shellArgs(shell string) []string {
	base := filepath.Base(shell)
	if i := strings.LastIndex(base, `\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(strings.ToLower(base), ".exe")

	switch base {
	case "cmd":
		return []string{"/d", "/s", "/c"}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command"}
	default:
		return []string{"-c"}
	}
}

// exitCode maps a reported exit code onto the code to propagate. Signals are
// reported as -1 and become a plain failure.
func exitCode(code int) types.ExitCode {
	c := types.ExitCode(code)
	if c.IsSuccess() || c.Validate() != nil {
		return types.ExitFailure
	}
	return c
}
