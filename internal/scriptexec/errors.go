// SPDX-License-Identifier: MPL-2.0

package scriptexec

import (
	"errors"
	"fmt"

	"github.com/runlifecycle/runlifecycle/pkg/types"
)

// ErrScriptFailed is matched by every *ScriptError.
var ErrScriptFailed = errors.New("lifecycle script failed")

// interrupted reports a script stopped because ctx ended. The result matches
// ctx.Err() and carries no exit code.
func interrupted(req runRequest, err error) error {
	return fmt.Errorf("%s script of %s interrupted: %w", req.stage, req.pkg, err)
}

// ScriptError is returned when a script ran and did not succeed, or could not
// be parsed.
type ScriptError struct {
	Stage   string
	Package string
	Script  string
	Code    types.ExitCode
	// Err is the underlying runtime error, if there was one besides the exit status.
	Err error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s script of %s failed (exit code %d): %v", e.Stage, e.Package, e.Code, e.Err)
	}
	return fmt.Sprintf("%s script of %s failed (exit code %d)", e.Stage, e.Package, e.Code)
}

// ExitCode returns the script's exit code.
func (e *ScriptError) ExitCode() int { return int(e.Code) }

// Unwrap returns the underlying runtime error.
func (e *ScriptError) Unwrap() error { return e.Err }

// Is reports whether target is ErrScriptFailed.
func (e *ScriptError) Is(target error) bool { return target == ErrScriptFailed }
