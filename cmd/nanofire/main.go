// Command nanofire reads and writes nanofire collections from the shell.
//
// Usage: nanofire [--backend json|sqlite|pgx|postgres|memory] <command> [args]
package main

import (
	"fmt"
	"os"
)

func main() {
	cli := NewCLI()
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
