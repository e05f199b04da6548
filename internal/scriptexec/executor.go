// SPDX-License-Identifier: MPL-2.0

package scriptexec

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/runlifecycle/runlifecycle/internal/lifecycle"
	"github.com/runlifecycle/runlifecycle/pkg/manifest"
)

const (
	logTag          = "lifecycle"
	stagePrepublish = "prepublish"
)

type (
	// Executor runs lifecycle scripts. The zero value is not usable; use New.
	Executor struct {
		// Stdin, Stdout and Stderr are the script's standard streams.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// Environ returns the base environment scripts inherit.
		Environ func() []string
		// NodePath is the node binary whose directory scripts-prepend-node-path
		// puts on PATH. Empty disables the feature.
		NodePath string
	}

	// runRequest is what a runtime needs to run one script.
	runRequest struct {
		stage  string
		pkg    string
		script string
		dir    string
		env    []string
		shell  string
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
	}
)

var _ lifecycle.Executor = (*Executor)(nil)

// New returns an Executor wired to the process streams and environment.
func New() *Executor {
	return &Executor{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Environ: os.Environ,
	}
}

// Execute runs the stage script of pkg in dir. A package without the stage is
// a no-op. A script that exits non-zero returns a *ScriptError.
func (e *Executor) Execute(ctx context.Context, pkg *manifest.Package, stage, dir string, opts lifecycle.ExecOptions) error {
	script, ok := pkg.Script(stage)
	if !ok {
		return nil
	}

	log := opts.Log
	if log == nil {
		log = silent{}
	}

	if opts.IgnoreScripts {
		log.Silly(logTag, "skipping", stage, "for", pkg.ID(), "because ignore-scripts is set")
		return nil
	}
	if opts.IgnorePrepublish && stage == stagePrepublish {
		log.Silly(logTag, "skipping", stage, "for", pkg.ID(), "because ignore-prepublish is set")
		return nil
	}
	if opts.UnsafePerm {
		log.Silly(logTag, "unsafe-perm in lifecycle", true)
	}

	if dir == "" {
		dir = pkg.Location
	}

	env := buildEnv(e.baseEnv(), envInput{
		pkg:      pkg,
		stage:    stage,
		script:   script,
		dir:      dir,
		opts:     opts,
		nodePath: e.NodePath,
	})

	req := runRequest{
		stage:  stage,
		pkg:    pkg.ID(),
		script: script,
		dir:    dir,
		env:    env,
		shell:  opts.ScriptShell,
		stdin:  e.Stdin,
		stdout: e.Stdout,
		stderr: e.Stderr,
	}

	log.Silly(logTag, pkg.ID(), stage, dir)
	slog.Debug("running lifecycle script", "stage", stage, "package", pkg.ID(), "script", script)

	if req.shell != "" {
		return runNative(ctx, req)
	}
	return runVirtual(ctx, req)
}

func (e *Executor) baseEnv() []string {
	if e.Environ == nil {
		return nil
	}
	return e.Environ()
}

type silent struct{}

func (silent) Silly(string, ...any)         {}
func (silent) Error(string, string, ...any) {}
