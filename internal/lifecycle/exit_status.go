// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"sync/atomic"

	"github.com/runlifecycle/runlifecycle/pkg/types"
)

// ExitStatus is the pending exit code of a run, read once by the top-level
// caller when it exits. Every failure overwrites it: with concurrent runs the
// last failure to be recorded wins. It is safe for concurrent use; the zero
// value means success.
type ExitStatus struct {
	code atomic.Int64
}

// Set records code as the pending exit code.
func (s *ExitStatus) Set(code types.ExitCode) {
	s.code.Store(int64(code))
}

// Code returns the pending exit code.
func (s *ExitStatus) Code() types.ExitCode {
	return types.ExitCode(s.code.Load())
}

// Failed reports whether a non-zero code was recorded.
func (s *ExitStatus) Failed() bool {
	return !s.Code().IsSuccess()
}
