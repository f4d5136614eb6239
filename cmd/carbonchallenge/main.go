// Command carbonchallenge projects global CO2 emissions and warming under
// climate policies chosen on the Carbon Challenge board.
package main

import (
	"os"

	"github.com/rshade/carbonchallenge/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev" //nolint:gochecknoglobals // Set by the linker.

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the process exit code. Cobra has already
// printed the error when Execute fails.
func run(args []string) int {
	root := cli.NewRootCmd(version)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
