// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fixtures for tests: files, package manifests and
// config files written under a test's temporary directory, failing the test
// on any error.
package testutil
