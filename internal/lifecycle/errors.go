// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"errors"
	"fmt"

	"github.com/runlifecycle/runlifecycle/pkg/types"
)

// ValidationErrorName marks failures that were already reported where they
// happened; upstream handlers print them once, without a stack or error chain.
const ValidationErrorName = "ValidationError"

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("lifecycle validation error")

	// ErrNilPackage is returned when Run is called without a package.
	ErrNilPackage = errors.New("lifecycle: nil package")
)

// ValidationError is returned when a lifecycle script fails.
type ValidationError struct {
	// Stage is the lifecycle stage that failed.
	Stage string
	// Package is the package name.
	Package string
	// Code is the exit code to propagate.
	Code types.ExitCode
	// Err is the executor's error.
	Err error
}

// Error returns the one-line summary of the failure.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%q errored in %q, exiting %d", e.Stage, e.Package, e.Code)
}

// Name returns ValidationErrorName.
func (e *ValidationError) Name() string { return ValidationErrorName }

// ExitCode returns Code, so a ValidationError wrapped by an outer executor keeps its code.
func (e *ValidationError) ExitCode() int { return int(e.Code) }

// Unwrap returns the executor's error.
func (e *ValidationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// exitCodeOf resolves the exit code carried by an executor error. Errors with
// no code, or a zero code, resolve to types.ExitFailure.
func exitCodeOf(err error) types.ExitCode {
	var coder exitCoder
	if errors.As(err, &coder) {
		return types.FromErrno(coder.ExitCode())
	}
	return types.ExitFailure
}
