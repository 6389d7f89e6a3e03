// Package command holds the plumbing shared by the compressor binaries.
package command

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dargueta/pzip/pipeline"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// PathsDescription is the help text for binaries whose positional arguments
// are all file paths.
const PathsDescription = "Every argument is a file path. Put paths that begin with '-' after '--'."

// EncodeFunc is the signature shared by the sequential and per-file encoders.
type EncodeFunc func(paths []string, logger zerolog.Logger, output io.Writer) (pipeline.Report, error)

// NewLogger returns a human-readable logger writing to `w`. Output is only
// colored if `w` is a terminal. The logger may be shared between goroutines;
// writes to `w` are serialized.
func NewLogger(w io.Writer) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        zerolog.SyncWriter(w),
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(w),
	}
	return zerolog.New(console).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && isatty.IsTerminal(file.Fd())
}

// Run runs the app with the given arguments and returns the process exit code.
// Errors are printed to `stderr`.
func Run(app *cli.App, args []string, stderr io.Writer) int {
	if err := app.Run(args); err != nil {
		fmt.Fprintf(stderr, "fatal error: %s\n", err.Error())
		return 1
	}
	return 0
}

// EncodeAction returns a cli action that runs `encode` over the positional
// arguments, writes the records to `stdout`, and logs the timing report.
func EncodeAction(encode EncodeFunc, stdout io.Writer, logger zerolog.Logger) cli.ActionFunc {
	return func(context *cli.Context) error {
		report, err := encode(context.Args().Slice(), logger, stdout)
		if err != nil {
			return err
		}
		report.Log(logger)
		return nil
	}
}
