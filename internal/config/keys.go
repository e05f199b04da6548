// SPDX-License-Identifier: MPL-2.0

package config

import "sort"

// Canonical option keys understood by the script executor.
const (
	KeyIgnorePrepublish       = "ignore-prepublish"
	KeyIgnoreScripts          = "ignore-scripts"
	KeyNodeOptions            = "node-options"
	KeyScriptShell            = "script-shell"
	KeyScriptsPrependNodePath = "scripts-prepend-node-path"
	KeyUnsafePerm             = "unsafe-perm"

	// KeyPrefix is always overwritten with the package directory.
	KeyPrefix = "prefix"
)

var (
	// aliases maps each canonical key to its camelCase alias.
	aliases = map[string]string{
		KeyIgnorePrepublish:       "ignorePrepublish",
		KeyIgnoreScripts:          "ignoreScripts",
		KeyNodeOptions:            "nodeOptions",
		KeyScriptShell:            "scriptShell",
		KeyScriptsPrependNodePath: "scriptsPrependNodePath",
		KeyUnsafePerm:             "unsafePerm",
	}

	// canonical is the inverse of aliases, plus the identity mapping for every
	// canonical key.
	canonical = func() map[string]string {
		m := make(map[string]string, 2*len(aliases))
		for key, alias := range aliases {
			m[key] = key
			m[alias] = key
		}
		return m
	}()

	// excluded keys hold logger handles and never reach a merged config.
	excluded = map[string]bool{
		"log":       true,
		"logstream": true,
	}

	canonicalKeys = func() []string {
		keys := make([]string, 0, len(aliases))
		for key := range aliases {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return keys
	}()
)

// Canonical returns the canonical key for key and whether key is recognized.
// Unrecognized keys are returned unchanged.
func Canonical(key string) (string, bool) {
	if c, ok := canonical[key]; ok {
		return c, true
	}
	return key, false
}

// AliasOf returns the camelCase alias of a canonical key.
func AliasOf(key string) (string, bool) {
	alias, ok := aliases[key]
	return alias, ok
}

// IsAlias reports whether key is one of the camelCase aliases.
func IsAlias(key string) bool {
	c, ok := canonical[key]
	return ok && c != key
}

// IsExcluded reports whether key must be dropped from every merged config.
func IsExcluded(key string) bool {
	return excluded[key]
}

// CanonicalKeys returns the recognized canonical keys, sorted.
func CanonicalKeys() []string {
	return append([]string(nil), canonicalKeys...)
}
