// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// JSONFileName is the preferred manifest file name.
	JSONFileName = "package.json"
	// YAMLFileName is read when no package.json exists.
	YAMLFileName = "package.yaml"
)

var (
	// ErrManifestNotFound is returned when a directory holds no manifest.
	ErrManifestNotFound = errors.New("package manifest not found")
	// ErrInvalidManifest is the sentinel error wrapped by InvalidManifestError.
	ErrInvalidManifest = errors.New("invalid package manifest")
)

// InvalidManifestError is returned when a manifest cannot be decoded or lacks a name.
type InvalidManifestError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *InvalidManifestError) Error() string {
	return fmt.Sprintf("invalid package manifest %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrInvalidManifest so callers can use errors.Is for programmatic detection.
func (e *InvalidManifestError) Unwrap() error { return ErrInvalidManifest }

// Cause returns the decoding error.
func (e *InvalidManifestError) Cause() error { return e.Err }

// Load reads the manifest in dir. The returned Package has Location set to the
// absolute form of dir.
func Load(dir string) (*Package, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve package directory %s: %w", dir, err)
	}

	jsonPath := filepath.Join(abs, JSONFileName)
	if data, err := os.ReadFile(jsonPath); err == nil {
		return decode(jsonPath, abs, data, json.Unmarshal)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", jsonPath, err)
	}

	yamlPath := filepath.Join(abs, YAMLFileName)
	if data, err := os.ReadFile(yamlPath); err == nil {
		return decode(yamlPath, abs, data, yaml.Unmarshal)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", yamlPath, err)
	}

	return nil, fmt.Errorf("%w in %s", ErrManifestNotFound, abs)
}

// LoadAll loads the manifests of dirs in order, stopping at the first error.
func LoadAll(dirs []string) ([]*Package, error) {
	pkgs := make([]*Package, 0, len(dirs))
	for _, dir := range dirs {
		pkg, err := Load(dir)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}

func decode(path, dir string, data []byte, unmarshal func([]byte, any) error) (*Package, error) {
	var pkg Package
	if err := unmarshal(data, &pkg); err != nil {
		return nil, &InvalidManifestError{Path: path, Err: err}
	}
	if pkg.Name == "" {
		return nil, &InvalidManifestError{Path: path, Err: errors.New("missing name")}
	}
	pkg.Location = dir
	return &pkg, nil
}
