// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"reflect"

	"github.com/runlifecycle/runlifecycle/internal/config"

	"github.com/spf13/cast"
)

// layeredMarker is the key that identifies a map holding a layered config
// rather than flat options.
const layeredMarker = "root"

type (
	// Config is a normalized configuration: flat, free of nil values, free of
	// logger handles, and always holding "prefix".
	Config map[string]any

	// source is the tagged union of accepted option shapes. Both variants
	// collapse to a flat map before any other logic looks at them.
	source interface {
		values() map[string]any
	}

	flatSource map[string]any

	layeredSource struct {
		snapshot func() map[string]any
	}
)

func (s flatSource) values() map[string]any { return s }

func (s layeredSource) values() map[string]any {
	if s.snapshot == nil {
		return nil
	}
	return s.snapshot()
}

// Normalize turns raw options into the Config scripts run with, with "prefix"
// set to location. raw may be a flat map, a Config, a config.Layered, or a map
// carrying a layered config under "root"/"snapshot"; anything else is treated
// as empty. Normalize never fails and never modifies raw.
func Normalize(raw any, location string) Config {
	src := sourceOf(raw).values()
	out := make(Config, len(src)+1)

	for key, val := range src {
		if config.IsExcluded(key) || isNil(val) {
			continue
		}
		if _, recognized := config.Canonical(key); recognized {
			continue
		}
		out[key] = val
	}

	for _, key := range config.CanonicalKeys() {
		alias, _ := config.AliasOf(key)
		val := src[key]
		if isNil(val) {
			val = src[alias]
		}
		if isNil(val) {
			continue
		}
		out[key] = val
		out[alias] = val
	}

	out[config.KeyPrefix] = location
	return out
}

func sourceOf(raw any) source {
	switch v := raw.(type) {
	case Config:
		return sourceOfMap(v)
	case map[string]any:
		return sourceOfMap(v)
	case config.Layered:
		if isNil(v) {
			return flatSource(nil)
		}
		return layeredSource{snapshot: v.Snapshot}
	default:
		return flatSource(nil)
	}
}

func sourceOfMap(m map[string]any) source {
	if _, layered := m[layeredMarker]; !layered {
		return flatSource(m)
	}
	switch snap := m["snapshot"].(type) {
	case map[string]any:
		return flatSource(snap)
	case Config:
		return flatSource(snap)
	case config.Layered:
		if isNil(snap) {
			return flatSource(nil)
		}
		return layeredSource{snapshot: snap.Snapshot}
	case func() map[string]any:
		return layeredSource{snapshot: snap}
	default:
		return flatSource(nil)
	}
}

// isNil reports whether v is nil or a typed nil pointer, map, slice, func,
// channel or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// Prefix returns the package directory the config was normalized for.
func (c Config) Prefix() string {
	return c.String(config.KeyPrefix)
}

// Bool returns the value of key as a bool; false when absent or not convertible.
func (c Config) Bool(key string) bool {
	key, _ = config.Canonical(key)
	return cast.ToBool(c[key])
}

// String returns the value of key as a string; "" when absent or not convertible.
func (c Config) String(key string) string {
	key, _ = config.Canonical(key)
	return cast.ToString(c[key])
}

// Passthrough extracts the values the executor takes as top-level options.
func (c Config) Passthrough() Passthrough {
	return Passthrough{
		IgnorePrepublish:       c.Bool("ignorePrepublish"),
		IgnoreScripts:          c.Bool("ignoreScripts"),
		NodeOptions:            c.String("nodeOptions"),
		ScriptShell:            c.String("scriptShell"),
		ScriptsPrependNodePath: ParseNodePathMode(c["scriptsPrependNodePath"]),
		UnsafePerm:             c.Bool("unsafePerm"),
	}
}
