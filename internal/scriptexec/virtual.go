// SPDX-License-Identifier: MPL-2.0

package scriptexec

import (
	"context"
	"errors"
	"strings"

	"github.com/runlifecycle/runlifecycle/pkg/types"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// runVirtual runs the script in the built-in POSIX shell. External commands
// are looked up on the script's PATH.
func runVirtual(ctx context.Context, req runRequest) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(req.script), req.stage)
	if err != nil {
		return &ScriptError{
			Stage:   req.stage,
			Package: req.pkg,
			Script:  req.script,
			Code:    types.ExitFailure,
			Err:     err,
		}
	}

	runner, err := interp.New(
		interp.Dir(req.dir),
		interp.Env(expand.ListEnviron(req.env...)),
		interp.StdIO(req.stdin, req.stdout, req.stderr),
	)
	if err != nil {
		return &ScriptError{
			Stage:   req.stage,
			Package: req.pkg,
			Script:  req.script,
			Code:    types.ExitFailure,
			Err:     err,
		}
	}

	err = runner.Run(ctx, prog)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return interrupted(req, ctxErr)
	}

	var status interp.ExitStatus
	if errors.As(err, &status) {
		return &ScriptError{
			Stage:   req.stage,
			Package: req.pkg,
			Script:  req.script,
			Code:    exitCode(int(status)),
		}
	}
	return &ScriptError{
		Stage:   req.stage,
		Package: req.pkg,
		Script:  req.script,
		Code:    types.ExitFailure,
		Err:     err,
	}
}
