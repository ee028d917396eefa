// Command jmespath compiles and evaluates JMESPath expressions from the
// command line: a one-shot search, an interactive REPL, or a small HTTP
// API.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
