// Command bork reconciles a codebase against its specifications.
package main

import (
	"os"

	"github.com/Smaug123/bork/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
