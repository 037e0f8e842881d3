// Command featurerepo registers the credit scoring feature declarations in a
// feature registry and inspects what is registered.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
