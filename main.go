// marv32 is the command-line interface to the MARV32 RISC-V emulator.
package main

import (
	"context"
	"os"

	"marv32/internal/cli"
	"marv32/internal/cli/cmd"
)

var (
	commands = []cli.Command{
		cmd.Run(),
	}
)

// Entry point.
func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
