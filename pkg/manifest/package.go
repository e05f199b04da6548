// SPDX-License-Identifier: MPL-2.0

package manifest

import "fmt"

// Package is the in-memory descriptor of one unit of work.
//
// The lifecycle runner takes a *Package and assigns RuntimeID in place before
// invoking the script executor; callers sharing a Package across goroutines
// must tolerate that write.
type Package struct {
	// Name is the package name, unique within a run.
	Name string `json:"name" yaml:"name"`
	// Version is the package version. It is not validated.
	Version string `json:"version" yaml:"version"`
	// Scripts maps stage names to shell commands.
	Scripts map[string]string `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	// Location is the absolute directory holding the manifest.
	Location string `json:"-" yaml:"-"`
	// RuntimeID is "{name}@{version}", set when a lifecycle stage runs.
	RuntimeID string `json:"-" yaml:"-"`
}

// ID returns "{name}@{version}" without touching the descriptor.
func (p *Package) ID() string {
	return fmt.Sprintf("%s@%s", p.Name, p.Version)
}

// Script returns the command for stage. ok is false when the package has no
// scripts, the stage is missing, or its command is empty.
func (p *Package) Script(stage string) (script string, ok bool) {
	if p == nil || p.Scripts == nil {
		return "", false
	}
	script = p.Scripts[stage]
	return script, script != ""
}

// String returns the package ID.
func (p *Package) String() string { return p.ID() }
