// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/runlifecycle/runlifecycle/cmd/runlifecycle"

func main() {
	cmd.Execute()
}
