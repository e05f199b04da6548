// SPDX-License-Identifier: MPL-2.0

// Package config assembles the global configuration snapshot that lifecycle
// scripts run with.
//
// Configuration is layered with Viper, lowest precedence first: built-in
// defaults, a CUE config file (validated against the embedded
// config_schema.cue), npm_config_* environment variables, and finally the
// options of the command being run. The file is read from --config-file when
// given, otherwise from the platform config directory
// (~/.config/runlifecycle/config.cue on Linux, ~/Library/Application
// Support/runlifecycle/config.cue on macOS, %APPDATA%\runlifecycle\config.cue on
// Windows), otherwise from .runlifecycle.cue in the working directory.
//
// The package also owns the table of recognized option keys: the dashed
// canonical names and the camelCase aliases that resolve to them.
package config
