// pzip compresses its inputs as one byte stream with a parallel run-length
// encoder and writes the records to stdout.
package main

import (
	"io"
	"os"

	"github.com/dargueta/pzip/internal/command"
	"github.com/dargueta/pzip/pipeline"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	os.Exit(command.Run(newApp(os.Stdout, os.Stderr), os.Args, os.Stderr))
}

func newApp(stdout, stderr io.Writer) *cli.App {
	logger := command.NewLogger(stderr)
	return &cli.App{
		Name:            "pzip",
		Usage:           "Compress files with a parallel run-length encoder",
		ArgsUsage:       "[--] FILE...",
		Description:     command.PathsDescription,
		HideHelpCommand: true,
		Writer:          stderr,
		ErrWriter:       stderr,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "page-size",
				Usage:   "number of input bytes encoded per task",
				EnvVars: []string{"PZIP_PAGE_SIZE"},
				Value:   pipeline.DefaultPageSize,
				Hidden:  true,
			},
			&cli.IntFlag{
				Name:    "queue-capacity",
				Usage:   "maximum number of pages waiting for a worker",
				EnvVars: []string{"PZIP_QUEUE_CAPACITY"},
				Value:   pipeline.DefaultQueueCapacity,
				Hidden:  true,
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "number of compression goroutines",
				EnvVars: []string{"PZIP_WORKERS"},
				Value:   pipeline.DefaultWorkers(),
				Hidden:  true,
			},
		},
		Action: func(context *cli.Context) error {
			return compressFiles(context, stdout, logger)
		},
	}
}

func compressFiles(context *cli.Context, stdout io.Writer, logger zerolog.Logger) error {
	config := pipeline.DefaultConfig()
	config.PageSize = context.Int("page-size")
	config.QueueCapacity = context.Int("queue-capacity")
	config.Workers = context.Int("workers")
	config.Logger = logger

	report, err := pipeline.Compress(context.Args().Slice(), config, stdout)
	if err != nil {
		return err
	}
	report.Log(logger)
	return nil
}
