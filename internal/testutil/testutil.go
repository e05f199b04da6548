// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Package is the manifest content WritePackage writes.
type Package struct {
	Name    string            `json:"name"`
	Version string            `json:"version,omitempty"`
	Scripts map[string]string `json:"scripts,omitempty"`
}

// MustWriteFile writes content to path, creating parent directories.
// The test fails immediately if writing fails.
func MustWriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// WritePackage writes pkg as package.json into a new directory named after
// the package and returns that directory.
func WritePackage(t testing.TB, pkg Package) string {
	t.Helper()
	data, err := json.Marshal(pkg)
	if err != nil {
		t.Fatalf("failed to encode package %s: %v", pkg.Name, err)
	}
	dir := filepath.Join(t.TempDir(), pkg.Name)
	MustWriteFile(t, filepath.Join(dir, "package.json"), string(data))
	return dir
}
