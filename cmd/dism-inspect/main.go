// Command dism-inspect shows what the DISM shim would do with a given
// invocation without launching anything, and applies the feature-listing
// rewrite to saved DISM output.
package main

import (
	"fmt"
	"os"

	"github.com/dzonerzy/go-dismshim/shim"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(shim.DefaultExitCodes().Resolve(err))
	}
}
