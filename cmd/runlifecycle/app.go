// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"os"
	"os/exec"

	"github.com/runlifecycle/runlifecycle/internal/config"
	"github.com/runlifecycle/runlifecycle/internal/lifecycle"
	"github.com/runlifecycle/runlifecycle/internal/scriptexec"
)

type (
	// App wires the services the commands use. Every command handler receives
	// the App and goes through it instead of package state.
	App struct {
		Config   config.Provider
		Executor lifecycle.Executor
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies are the injection points for NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config   config.Provider
		Executor lifecycle.Executor
		Stdout   io.Writer
		Stderr   io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Executor == nil {
		e := scriptexec.New()
		e.Stdout = deps.Stdout
		e.Stderr = deps.Stderr
		if node, err := exec.LookPath("node"); err == nil {
			e.NodePath = node
		}
		deps.Executor = e
	}

	return &App{
		Config:   deps.Config,
		Executor: deps.Executor,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
}
