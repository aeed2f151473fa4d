// Command go_paykit provides TR-31 key block and ISO 9564 PIN block
// utilities and a TCP server exposing them.
package main

import (
	"fmt"
	"os"

	"github.com/andrei-cloud/go_paykit/internal/commands/cli"
)

func main() {
	rootCmd, err := cli.NewRootCommand()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
