// wzip compresses each input on its own, one after the other, and writes the
// records to stdout.
package main

import (
	"io"
	"os"

	"github.com/dargueta/pzip/internal/command"
	"github.com/dargueta/pzip/pipeline"
	"github.com/urfave/cli/v2"
)

func main() {
	os.Exit(command.Run(newApp(os.Stdout, os.Stderr), os.Args, os.Stderr))
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:            "wzip",
		Usage:           "Compress files with a sequential run-length encoder",
		ArgsUsage:       "[--] FILE...",
		Description:     command.PathsDescription,
		HideHelpCommand: true,
		Writer:          stderr,
		ErrWriter:       stderr,
		Action: command.EncodeAction(
			pipeline.CompressSequential, stdout, command.NewLogger(stderr),
		),
	}
}
