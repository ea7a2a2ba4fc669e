// Package cli implements bork's command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "bork",
	Short:   "bork reconciles a codebase against its specifications using an LLM",
	Version: Version,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return lastExitCode
}

// lastExitCode is set by the run command's RunE before returning, since
// cobra itself only distinguishes "errored" from "didn't"; bork's exit
// codes are a three-way outcome (§6), carried out-of-band here.
var lastExitCode int
