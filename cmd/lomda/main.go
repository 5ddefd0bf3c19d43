// Command lomda runs, REPLs, and tests Lomda programs — the calculus-
// native expression language spec.md describes.
package main

import (
	"fmt"
	"os"

	"github.com/lomda-lang/lomda/cmd/lomda/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
