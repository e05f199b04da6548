// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for the user. The issue catalog holds Markdown help pages keyed by
// Id, rendered with glamour when the CLI reports a failure that has one.
package issue
