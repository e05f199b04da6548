// SPDX-License-Identifier: MPL-2.0

package config

import "maps"

type (
	// Layered is a configuration source made of stacked layers. Root returns the
	// bottom (defaults) layer; Snapshot returns every layer merged into one flat
	// map. Both return copies.
	Layered interface {
		Root() map[string]any
		Snapshot() map[string]any
	}

	// Conf is the result of loading configuration. It implements Layered.
	Conf struct {
		root     map[string]any
		snapshot map[string]any
		path     string
	}
)

// NewConf builds a Conf from explicit layers. It is mainly useful for tests and
// for callers that assemble configuration themselves.
func NewConf(root, snapshot map[string]any) *Conf {
	return &Conf{root: maps.Clone(root), snapshot: maps.Clone(snapshot)}
}

// Root returns a copy of the defaults layer.
func (c *Conf) Root() map[string]any {
	if c.root == nil {
		return map[string]any{}
	}
	return maps.Clone(c.root)
}

// Snapshot returns a copy of the merged configuration.
func (c *Conf) Snapshot() map[string]any {
	if c.snapshot == nil {
		return map[string]any{}
	}
	return maps.Clone(c.snapshot)
}

// Path returns the config file that was merged, or "" when none was found.
func (c *Conf) Path() string { return c.path }

// Get returns the merged value for key. Aliases resolve to their canonical key.
func (c *Conf) Get(key string) (any, bool) {
	key, _ = Canonical(key)
	val, ok := c.snapshot[key]
	return val, ok
}
