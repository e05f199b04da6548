// SPDX-License-Identifier: MPL-2.0

// Package scriptexec is the lifecycle.Executor that actually runs package
// scripts.
//
// Scripts run in the built-in POSIX shell (mvdan.cc/sh) unless script-shell
// names a system shell, in which case they are handed to it with os/exec. Either
// way the script sees the npm-style environment: npm_lifecycle_event,
// npm_package_*, npm_config_* and a PATH that starts with every
// node_modules/.bin from the package directory up to the filesystem root.
package scriptexec
