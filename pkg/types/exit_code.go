// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitSuccess is the exit code of a script that completed normally.
	ExitSuccess ExitCode = 0
	// ExitFailure is the exit code reported when a failing script carries no code of its own.
	ExitFailure ExitCode = 1
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// FromErrno converts the errno reported by a failed script into the exit code to
// propagate. A zero errno means the failure carried no usable code, so ExitFailure
// is returned instead: a failed script must never propagate success.
func FromErrno(errno int) ExitCode {
	if errno == 0 {
		return ExitFailure
	}
	return ExitCode(errno)
}

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// OrFailure returns c when it is a valid non-zero code, and ExitFailure otherwise.
// Use it right before handing a code to os.Exit.
func (c ExitCode) OrFailure() ExitCode {
	if c.IsSuccess() || c.Validate() != nil {
		return ExitFailure
	}
	return c
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
