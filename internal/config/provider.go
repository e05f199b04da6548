// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
var ErrInvalidLoadOptions = errors.New("invalid load options")

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath string
		// WorkDir is searched for a local config file. Defaults to ".".
		WorkDir string
		// Options are the command's own options. They take precedence over
		// every other layer. Nil values are ignored.
		Options map[string]any
		// Environ replaces os.Environ() as the source of npm_config_* variables.
		Environ []string
	}

	// InvalidLoadOptionsError collects field-level validation errors.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Conf, error)
	}

	fileProvider struct{}
)

// Error implements the error interface.
func (e *InvalidLoadOptionsError) Error() string {
	return fmt.Sprintf("invalid load options: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }

// Validate rejects paths that are set but whitespace-only.
func (o LoadOptions) Validate() error {
	var errs []error
	for name, value := range map[string]string{
		"config file path": o.ConfigFilePath,
		"config dir path":  o.ConfigDirPath,
		"work dir":         o.WorkDir,
	} {
		if value != "" && strings.TrimSpace(value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be whitespace-only", name))
		}
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

// NewProvider creates a configuration provider backed by files and the environment.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested sources.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Conf, error) {
	return loadWithOptions(ctx, opts)
}
