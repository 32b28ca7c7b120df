// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/ctrkit/cmd/ctrkit"

func main() {
	cmd.Execute()
}
