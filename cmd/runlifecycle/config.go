// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/runlifecycle/runlifecycle/internal/config"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func newConfigCommand(app *App, root *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect runlifecycle configuration",
		Long: `Inspect runlifecycle configuration.

Configuration is merged from, lowest to highest:
  - built-in defaults
  - the config file: --config-file, else
      Linux: ~/.config/runlifecycle/config.cue
      macOS: ~/Library/Application Support/runlifecycle/config.cue
      Windows: %APPDATA%\runlifecycle\config.cue
    else ./.runlifecycle.cue
  - npm_config_* environment variables
  - command line flags`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var asJSON bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the configuration scripts would run with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app, root, asJSON)
		},
	}
	showCmd.Flags().BoolVar(&asJSON, "json", false, "print the configuration as JSON")
	cfgCmd.AddCommand(showCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd.Context(), app, root)
			if err != nil {
				return err
			}
			val, ok := conf.Get(args[0])
			if !ok {
				return fmt.Errorf("config key %q is not set", args[0])
			}
			fmt.Fprintln(app.stdout, cast.ToString(val))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the config file that is merged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig(cmd.Context(), app, root)
			if err != nil {
				return err
			}
			if conf.Path() == "" {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("(none, using defaults)"))
				return nil
			}
			fmt.Fprintln(app.stdout, conf.Path())
			return nil
		},
	})

	return cfgCmd
}

func loadConfig(ctx context.Context, app *App, root *rootOptions) (*config.Conf, error) {
	return app.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: root.configFile,
		WorkDir:        ".",
	})
}

func showConfig(ctx context.Context, app *App, root *rootOptions, asJSON bool) error {
	conf, err := loadConfig(ctx, app, root)
	if err != nil {
		return err
	}
	snapshot := conf.Snapshot()

	if asJSON {
		enc := json.NewEncoder(app.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)
	if conf.Path() != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("Config file"), conf.Path())
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)
	writeSettings(app.stdout, snapshot)
	return nil
}

// writeSettings prints key = value lines in key order.
func writeSettings(w io.Writer, settings map[string]any) {
	keys := maps.Keys(settings)
	slices.Sort(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "%s = %s\n", CmdStyle.Render(key), SuccessStyle.Render(cast.ToString(settings[key])))
	}
}
