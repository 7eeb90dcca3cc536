// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"os/user"

	"roundtrip/internal/unparser"
	"roundtrip/repl"
)

func main() {
	currentUser, err := user.Current()
	if err != nil {
		fmt.Printf("Error getting current user: %v\n", err)
		return
	}

	fmt.Printf("Welcome to the roundtrip REPL, %s!\n", currentUser.Username)
	fmt.Println("Type Python; each statement is echoed back as regenerated source.")
	repl.Start(os.Stdin, os.Stdout, unparser.DefaultOptions())
}
