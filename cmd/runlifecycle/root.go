// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the runlifecycle CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/runlifecycle/runlifecycle/internal/issue"
	"github.com/runlifecycle/runlifecycle/internal/lifecycle"
	"github.com/runlifecycle/runlifecycle/internal/logging"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the global flags and the logger built from them.
type rootOptions struct {
	verbose    bool
	logLevel   string
	logFile    string
	logJSON    bool
	configFile string

	logger *logging.Logger
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	return newRootCommand(app, &rootOptions{})
}

func newRootCommand(app *App, opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "runlifecycle",
		Short: "Run package lifecycle scripts",
		Long: TitleStyle.Render("runlifecycle") + SubtitleStyle.Render(" - Run package lifecycle scripts") + `

runlifecycle runs a named script ("build", "test", "prepare", ...) from each
package's package.json or package.yaml, inside the package directory, with
configuration merged from defaults, a CUE config file, npm_config_*
environment variables and the command line.

` + SubtitleStyle.Render("Examples:") + `
  runlifecycle run build                 Run "build" in the current package
  runlifecycle run test pkgs/a pkgs/b    Run "test" in two packages
  runlifecycle config show               Show the effective configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setupLogging(app.stderr, cmd.Flags().Changed("loglevel"))
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if opts.logger == nil {
				return nil
			}
			return opts.logger.Close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output (same as --loglevel verbose)")
	flags.StringVar(&opts.logLevel, "loglevel", string(logging.DefaultLevel), "log level: silent, error, warn, notice, http, info, verbose, silly")
	flags.StringVar(&opts.logFile, "log-file", "", "also write logs to this file, rotated by size")
	flags.BoolVar(&opts.logJSON, "log-json", false, "write log lines as JSON")
	flags.StringVar(&opts.configFile, "config-file", "", "config file (default is $XDG_CONFIG_HOME/runlifecycle/config.cue, then ./.runlifecycle.cue)")

	rootCmd.AddCommand(newRunCommand(app, opts))
	rootCmd.AddCommand(newConfigCommand(app, opts))

	return rootCmd
}

// setupLogging builds the logger and installs it as the slog default.
func (o *rootOptions) setupLogging(stderr io.Writer, levelSet bool) error {
	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	if o.verbose && !levelSet {
		level = logging.LevelVerbose
	}

	logger, err := logging.New(logging.Options{
		Level:           level,
		Output:          stderr,
		File:            o.logFile,
		JSON:            o.logJSON,
		ReportTimestamp: o.logFile != "",
	})
	if err != nil {
		return err
	}
	logger.SetDefault()
	o.logger = logger
	return nil
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process with the resulting code.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	opts := &rootOptions{}
	rootCmd := newRootCommand(app, opts)

	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			renderError(w, styles, err, opts.verbose)
		}),
	)
	if err != nil {
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor returns the process exit code for an error returned by a command.
func exitCodeFor(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.Code.OrFailure())
	}
	return 1
}

// renderError prints err once. Lifecycle failures were already logged where
// they happened, so they only get their summary line.
func renderError(w io.Writer, styles fang.Styles, err error, verbose bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	var verr *lifecycle.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(w, ErrorStyle.Render("✗ ")+verr.Error())
		return
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(verbose))
		if entry := issue.Get(ae.IssueID); entry != nil {
			if rendered, renderErr := entry.Render("dark"); renderErr == nil {
				fmt.Fprint(w, rendered)
			}
		}
		return
	}

	fang.DefaultErrorHandler(w, styles, err)
}
