// Command invgen infers likely invariants from program execution traces.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/invgen/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "invgen:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
