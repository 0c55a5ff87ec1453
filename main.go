package main

import (
	"fmt"
	"os"

	"github.com/greenlab/greenhouse-rl/commands"
)

// main entry point to the calibrator environment commands
func main() {
	rootCommand := commands.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
