// Command transcodectl is the CLI entrypoint; all of its behavior lives in
// internal/cli so it can be unit tested without spawning a process.
package main

import (
	"fmt"
	"os"

	"github.com/vtmesh/transcode/internal/cli"
)

func main() {
	if err := cli.BuildCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
