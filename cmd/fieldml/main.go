// Command fieldml decodes, describes, lints and archives FieldML regions.
package main

import (
	"fmt"
	"os"

	"github.com/codecurve/fieldml.api/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
