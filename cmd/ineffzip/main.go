// ineffzip compresses every input in its own goroutine and writes the records
// to stdout in argument order. The output is the same as wzip's.
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
		Name:            "ineffzip",
		Usage:           "Compress files with one goroutine per file",
		ArgsUsage:       "[--] FILE...",
		Description:     command.PathsDescription,
		HideHelpCommand: true,
		Writer:          stderr,
		ErrWriter:       stderr,
		Action: command.EncodeAction(
			pipeline.CompressPerFile, stdout, command.NewLogger(stderr),
		),
	}
}
