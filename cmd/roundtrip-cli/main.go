// SPDX-License-Identifier: Apache-2.0

// roundtrip regenerates Python source from its syntax tree and checks that
// the regenerated text means the same thing as the original.
//
// Usage:
//
//	# Check every .py file under a directory
//	roundtrip run ./corpus
//
//	# Also execute both versions and compare their behavior
//	roundtrip run ./corpus --exec --timeout 5 --jobs 8
//
//	# Print the regenerated text of one file
//	roundtrip unparse script.py
//
//	# Re-run whenever the corpus changes
//	roundtrip watch ./corpus
package main

import (
	"os"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	os.Exit(Execute())
}
