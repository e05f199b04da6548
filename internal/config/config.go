// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/runlifecycle/runlifecycle/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "runlifecycle"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFileName is looked up in the working directory when the
	// config directory holds no file.
	LocalConfigFileName = ".runlifecycle.cue"

	// EnvPrefix marks environment variables that carry configuration.
	EnvPrefix = "npm_config_"

	// MaxFileSize bounds the size of a config file.
	MaxFileSize = 4 << 20

	// keyDelimiter replaces viper's "." so registry URLs survive as flat keys.
	keyDelimiter = "::"
)

//go:embed config_schema.cue
var configSchema string

// ErrFileTooLarge is returned when a config file exceeds MaxFileSize.
var ErrFileTooLarge = errors.New("config file too large")

// ConfigDir returns the runlifecycle configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DefaultValues returns the bottom configuration layer.
func DefaultValues() map[string]any {
	return map[string]any{
		KeyIgnorePrepublish:       false,
		KeyIgnoreScripts:          false,
		KeyScriptsPrependNodePath: "warn-only",
		KeyUnsafePerm:             defaultUnsafePerm(),
	}
}

// defaultUnsafePerm is true unless running as root on a POSIX system.
func defaultUnsafePerm() bool {
	return runtime.GOOS == "windows" || os.Geteuid() != 0
}

// loadWithOptions performs option-driven config loading without touching any
// package-level cache. Every call builds a fresh viper instance.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Conf, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))

	root := DefaultValues()
	for key, val := range root {
		v.SetDefault(key, val)
	}

	path, err := resolveConfigFile(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Quote dashed keys, e.g. \"ignore-scripts\": true").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	for key, val := range envValues(environ) {
		v.Set(key, val)
	}

	for key, val := range opts.Options {
		if val == nil || IsExcluded(key) {
			continue
		}
		canonicalKey, _ := Canonical(key)
		v.Set(canonicalKey, val)
	}

	return &Conf{root: root, snapshot: v.AllSettings(), path: path}, nil
}

// resolveConfigFile picks the config file to merge: the explicit path, then the
// config directory, then the working directory. It returns "" when none exists.
func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'runlifecycle config show' to see the default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		cfgDir = dir
	}
	if path := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(path) {
		return path, nil
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}
	if path := filepath.Join(workDir, LocalConfigFileName); fileExists(path) {
		return path, nil
	}

	return "", nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// folds camelCase aliases onto their dashed keys and merges the result into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > MaxFileSize {
		return fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrFileTooLarge, path, len(data), MaxFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err())
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err)
	}

	return v.MergeConfigMap(foldAliases(configMap))
}

// foldAliases rewrites camelCase alias keys to their canonical key. A canonical
// key already present wins over its alias.
func foldAliases(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, val := range m {
		if !IsAlias(key) {
			out[key] = val
		}
	}
	for key, val := range m {
		if !IsAlias(key) {
			continue
		}
		canonicalKey, _ := Canonical(key)
		if _, ok := out[canonicalKey]; !ok {
			out[canonicalKey] = val
		}
	}
	return out
}

// envValues extracts npm_config_* variables. The prefix match is case-insensitive;
// the remainder is lowercased and every underscore after the first character
// becomes a dash, so npm_config_ignore_scripts sets ignore-scripts and
// npm_config__auth sets _auth.
func envValues(environ []string) map[string]any {
	values := make(map[string]any)
	for _, kv := range environ {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok || len(name) <= len(EnvPrefix) || !strings.EqualFold(name[:len(EnvPrefix)], EnvPrefix) {
			continue
		}
		key := strings.ToLower(name[len(EnvPrefix):])
		key = key[:1] + strings.ReplaceAll(key[1:], "_", "-")

		val, keep := parseEnvValue(raw)
		if !keep {
			continue
		}
		values[key] = val
	}
	return values
}

// parseEnvValue turns "true"/"false" into booleans and drops "null"/"undefined".
func parseEnvValue(raw string) (any, bool) {
	switch raw {
	case "true":
		return true, true
	case "false":
		return false, true
	case "null", "undefined":
		return nil, false
	default:
		return raw, true
	}
}

func formatCUEError(err error) error {
	return errors.New(strings.TrimSpace(cueerrors.Details(err, nil)))
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
