// unzip expands compressed files back into the original bytes and writes them
// to stdout, in argument order.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dargueta/pzip"
	"github.com/dargueta/pzip/internal/command"
	"github.com/dargueta/pzip/utilities/compression"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	os.Exit(command.Run(newApp(os.Stdout, os.Stderr), os.Args, os.Stderr))
}

func newApp(stdout, stderr io.Writer) *cli.App {
	logger := command.NewLogger(stderr)
	return &cli.App{
		Name:            "unzip",
		Usage:           "Expand files written by pzip, wzip, or ineffzip",
		ArgsUsage:       "[--] FILE...",
		Description:     command.PathsDescription,
		HideHelpCommand: true,
		Writer:          stderr,
		ErrWriter:       stderr,
		Action: func(context *cli.Context) error {
			if context.NArg() == 0 {
				return pzip.ErrInvalidArgument.WithMessage("no input files")
			}
			for _, path := range context.Args().Slice() {
				if err := expandFile(path, stdout, logger); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func expandFile(path string, output io.Writer, logger zerolog.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		return pzip.ErrFatalIO.WithMessage(fmt.Sprintf("failed to open %s", path)).Wrap(err)
	}
	defer file.Close()

	nWritten, err := compression.DecodeStream(file, output)
	if err != nil {
		return fmt.Errorf("error expanding %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Int64("bytes", nWritten).Msg("expanded file")
	return nil
}
