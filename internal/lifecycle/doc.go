// SPDX-License-Identifier: MPL-2.0

// Package lifecycle runs a named lifecycle script ("build", "test", "prepare", ...)
// of a package with a fully merged configuration.
//
// Normalize flattens an options bag into the Config a script executor needs:
// recognized keys and their camelCase aliases resolve to one value, nil values
// and logger handles are dropped, and "prefix" is pinned to the package
// directory. Runner.Run invokes the Executor once and turns a failing script into
// a *ValidationError carrying the exit code to propagate, recorded on the
// runner's ExitStatus. Runner.ForCommand captures one configuration snapshot and
// returns a RunFunc that skips stages a package does not define.
//
// The package decides nothing about which packages or stages run, or in what
// order; that belongs to the caller.
package lifecycle
