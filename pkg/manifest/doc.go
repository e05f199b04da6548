// SPDX-License-Identifier: MPL-2.0

// Package manifest describes the package a lifecycle stage runs for.
//
// A Package is loaded from package.json, or from package.yaml when no JSON
// manifest exists. Only the fields the lifecycle runner needs are decoded:
// name, version and the scripts table. Location is always the absolute
// directory the manifest was read from.
package manifest
