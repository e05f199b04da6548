// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestMustWriteFileCreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "file.txt")
	MustWriteFile(t, path, "hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want hello", data)
	}
}

func TestWritePackage(t *testing.T) {
	t.Parallel()

	dir := WritePackage(t, Package{Name: "pkg-a", Version: "1.0.0", Scripts: map[string]string{"build": "make"}})
	if filepath.Base(dir) != "pkg-a" {
		t.Errorf("dir = %q, want it named pkg-a", dir)
	}

	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var got Package
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("package.json is not JSON: %v", err)
	}
	if got.Name != "pkg-a" || got.Scripts["build"] != "make" {
		t.Errorf("package.json = %+v", got)
	}
}
