// Command calc is a four-function calculator with a journaled keypad.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/calcbrain/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
