// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"context"
	"strings"

	"github.com/runlifecycle/runlifecycle/pkg/manifest"

	"github.com/spf13/cast"
)

const (
	// NodePathUnset means scripts-prepend-node-path was not configured.
	NodePathUnset NodePathMode = ""
	// NodePathNever never touches PATH.
	NodePathNever NodePathMode = "false"
	// NodePathAlways prepends the node binary's directory to PATH.
	NodePathAlways NodePathMode = "true"
	// NodePathAuto prepends only when the node found on PATH is a different binary.
	NodePathAuto NodePathMode = "auto"
	// NodePathWarnOnly warns when the node found on PATH is a different binary.
	NodePathWarnOnly NodePathMode = "warn-only"
)

type (
	// Logger is the sink lifecycle runs log through.
	Logger interface {
		// Silly logs a fine-grained trace line; args are joined with spaces.
		Silly(prefix string, args ...any)
		// Error logs a formatted error line.
		Error(prefix, format string, args ...any)
	}

	// Executor spawns the script of a stage and waits for it.
	//
	// A non-nil error means the script failed. Errors that know the script's
	// exit code expose it through an ExitCode() int method somewhere in their
	// chain.
	Executor interface {
		Execute(ctx context.Context, pkg *manifest.Package, stage, dir string, opts ExecOptions) error
	}

	// NodePathMode is the parsed scripts-prepend-node-path setting.
	NodePathMode string

	// Passthrough holds the options the executor takes at the top level rather
	// than from inside Config. The same values are also present in Config so
	// they reach scripts as npm_config_* variables.
	Passthrough struct {
		IgnorePrepublish       bool
		IgnoreScripts          bool
		NodeOptions            string
		ScriptShell            string
		ScriptsPrependNodePath NodePathMode
		UnsafePerm             bool
	}

	// ExecOptions is everything the executor receives besides the package,
	// stage and directory.
	ExecOptions struct {
		Passthrough

		// Config is the normalized configuration.
		Config Config
		// Dir is the working directory, the package location.
		Dir string
		// FailOK would let a failing script pass. Runner always sets it to false.
		FailOK bool
		// Log is the runner's logger.
		Log Logger
	}

	// exitCoder is implemented by errors that carry a process exit code,
	// including *exec.ExitError.
	exitCoder interface {
		ExitCode() int
	}

	nopLogger struct{}
)

// ParseNodePathMode interprets a scripts-prepend-node-path value. Booleans and
// their string forms map to NodePathAlways/NodePathNever; "auto" and
// "warn-only" map to themselves; anything else is NodePathUnset.
func ParseNodePathMode(v any) NodePathMode {
	switch val := v.(type) {
	case nil:
		return NodePathUnset
	case bool:
		if val {
			return NodePathAlways
		}
		return NodePathNever
	}

	s := strings.ToLower(strings.TrimSpace(cast.ToString(v)))
	switch NodePathMode(s) {
	case NodePathAlways, NodePathNever, NodePathAuto, NodePathWarnOnly:
		return NodePathMode(s)
	default:
		return NodePathUnset
	}
}

func (nopLogger) Silly(string, ...any)         {}
func (nopLogger) Error(string, string, ...any) {}
