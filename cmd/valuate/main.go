// Command valuate runs a single valuation against a reference data file and
// prints the breakdown.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
