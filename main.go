// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/withtypes/withtypes/cmd/withtypes"

func main() {
	cmd.Execute()
}
