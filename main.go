// SPDX-License-Identifier: MPL-2.0

// Command specter inspects the plugins linked into the specter wallet.
package main

import cmd "github.com/cryptoadvance/specter/cmd/specter"

func main() {
	cmd.Execute()
}
