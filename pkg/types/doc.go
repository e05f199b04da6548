// SPDX-License-Identifier: MPL-2.0

// Package types holds small value types shared by the lifecycle runner and its CLI.
package types
