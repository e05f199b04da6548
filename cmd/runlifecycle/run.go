// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/runlifecycle/runlifecycle/internal/config"
	"github.com/runlifecycle/runlifecycle/internal/issue"
	"github.com/runlifecycle/runlifecycle/internal/lifecycle"
	"github.com/runlifecycle/runlifecycle/internal/logging"
	"github.com/runlifecycle/runlifecycle/pkg/manifest"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const runTag = "run"

// runOptions holds the flags of the run command.
type runOptions struct {
	ignoreScripts    bool
	ignorePrepublish bool
	unsafePerm       bool
	nodeOptions      string
	scriptShell      string
	prependNodePath  string
	set              []string
	concurrency      int
	noBail           bool
}

// flagKeys maps run flags onto the configuration keys they set.
var flagKeys = map[string]string{
	"ignore-scripts":            config.KeyIgnoreScripts,
	"ignore-prepublish":         config.KeyIgnorePrepublish,
	"unsafe-perm":               config.KeyUnsafePerm,
	"node-options":              config.KeyNodeOptions,
	"script-shell":              config.KeyScriptShell,
	"scripts-prepend-node-path": config.KeyScriptsPrependNodePath,
}

func newRunCommand(app *App, root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	runCmd := &cobra.Command{
		Use:   "run <stage> [package-dir...]",
		Short: "Run a lifecycle stage in one or more packages",
		Long: `Run a lifecycle stage in one or more packages.

Packages that do not define the stage are skipped. When a script fails,
runlifecycle exits with the script's exit code.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := opts.commandOptions(cmd)
			if err != nil {
				return err
			}
			return runStage(cmd.Context(), app, root, opts, options, args[0], args[1:])
		},
	}

	flags := runCmd.Flags()
	flags.BoolVar(&opts.ignoreScripts, "ignore-scripts", false, "do not run any scripts")
	flags.BoolVar(&opts.ignorePrepublish, "ignore-prepublish", false, "skip the prepublish stage")
	flags.BoolVar(&opts.unsafePerm, "unsafe-perm", false, "run scripts with the current user's privileges")
	flags.StringVar(&opts.nodeOptions, "node-options", "", "NODE_OPTIONS for scripts")
	flags.StringVar(&opts.scriptShell, "script-shell", "", "run scripts with this system shell instead of the built-in one")
	flags.StringVar(&opts.prependNodePath, "scripts-prepend-node-path", "", "put the node binary's directory on PATH: true, false, auto, warn-only")
	flags.StringArrayVar(&opts.set, "set", nil, "set a configuration value (key=value, repeatable)")
	flags.IntVar(&opts.concurrency, "concurrency", 1, "number of packages to run at once")
	flags.BoolVar(&opts.noBail, "no-bail", false, "keep running the remaining packages after a failure")

	return runCmd
}

// commandOptions collects the options given on the command line. Flags that
// were not set are left out so they do not override configuration files.
func (o *runOptions) commandOptions(cmd *cobra.Command) (map[string]any, error) {
	options := make(map[string]any)

	for _, kv := range o.set {
		key, raw, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set value %q (want key=value)", kv)
		}
		options[key] = parseSetValue(raw)
	}

	values := map[string]any{
		"ignore-scripts":            o.ignoreScripts,
		"ignore-prepublish":         o.ignorePrepublish,
		"unsafe-perm":               o.unsafePerm,
		"node-options":              o.nodeOptions,
		"script-shell":              o.scriptShell,
		"scripts-prepend-node-path": o.prependNodePath,
	}
	for flag, key := range flagKeys {
		if cmd.Flags().Changed(flag) {
			options[key] = values[flag]
		}
	}

	if o.concurrency < 1 {
		return nil, fmt.Errorf("--concurrency must be at least 1, got %d", o.concurrency)
	}
	return options, nil
}

// parseSetValue turns "true" and "false" into booleans; everything else stays a string.
func parseSetValue(raw string) any {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case "true", "false":
		return cast.ToBool(v)
	default:
		return raw
	}
}

func runStage(ctx context.Context, app *App, root *rootOptions, opts *runOptions, options map[string]any, stage string, dirs []string) error {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	pkgs, err := manifest.LoadAll(dirs)
	if err != nil {
		return manifestError(err)
	}

	logger := root.logger
	if logger == nil {
		logger = logging.Discard()
	}

	runner, run, err := lifecycle.CreateRunner(ctx, app.Executor, app.Config, config.LoadOptions{
		ConfigFilePath: root.configFile,
		WorkDir:        ".",
		Options:        options,
	}, lifecycle.WithExitStatus(&lifecycle.ExitStatus{}), lifecycle.WithLogger(logger))
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(opts.concurrency)

	// After a failure in bail mode no further package starts. Scripts that are
	// already running are left to finish so their outcome is their own.
	var bailed atomic.Bool
	var ran atomic.Int64
	for _, pkg := range pkgs {
		g.Go(func() error {
			if bailed.Load() || ctx.Err() != nil {
				return nil
			}
			_, defined := pkg.Script(stage)
			if defined {
				logger.Verbose(runTag, stage, pkg.ID())
			}
			if _, err := run(ctx, pkg, stage); err != nil {
				if !opts.noBail {
					bailed.Store(true)
				}
				return err
			}
			if defined {
				ran.Add(1)
				fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+" "+stage+" "+CmdStyle.Render(pkg.ID()))
			}
			return nil
		})
	}
	// The first error returned; the exit code comes from the runner's ExitStatus.
	firstErr := g.Wait()
	logger.Info(runTag, "%s ran in %d of %d packages", stage, ran.Load(), len(pkgs))

	if status := runner.ExitStatus(); status.Failed() {
		return &ExitError{Code: status.Code(), Err: firstErr}
	}
	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// manifestError attaches catalog guidance to manifest loading failures.
func manifestError(err error) error {
	ctx := issue.NewErrorContext().WithOperation("load package manifest")

	var invalid *manifest.InvalidManifestError
	switch {
	case errors.As(err, &invalid):
		ctx = ctx.WithResource(invalid.Path).
			WithSuggestion("Check the manifest syntax and that it has a \"name\" field").
			WithIssue(issue.ManifestParseErrorId)
	case errors.Is(err, manifest.ErrManifestNotFound):
		ctx = ctx.WithSuggestion("Pass the directory that holds package.json or package.yaml").
			WithIssue(issue.ManifestNotFoundId)
	}

	return ctx.Wrap(err).BuildError()
}
