// SPDX-License-Identifier: MPL-2.0

// Package logging provides the logger sink used while running lifecycle stages.
//
// Logger wraps a charmbracelet/log logger behind the npm-style level names
// (silent, error, warn, notice, http, info, verbose, silly) and exposes the
// Silly/Error call shapes the lifecycle runner expects. Output goes to stderr
// and, when a log file is configured, to a lumberjack-rotated file as well.
package logging
