// zipbench runs each encoder over the same inputs and writes a CSV timing
// report to stdout.
package main

import (
	"io"
	"os"

	"github.com/dargueta/pzip/internal/command"
	"github.com/dargueta/pzip/pipeline"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// benchmarkRow is one line of the report.
type benchmarkRow struct {
	Encoder     string  `csv:"encoder"`
	Workers     int     `csv:"workers"`
	Files       int     `csv:"files"`
	InputBytes  int64   `csv:"input_bytes"`
	OutputBytes int64   `csv:"output_bytes"`
	Runs        int     `csv:"runs"`
	Seconds     float64 `csv:"seconds"`
}

func newRow(report pipeline.Report) benchmarkRow {
	return benchmarkRow{
		Encoder:     report.Encoder,
		Workers:     report.Workers,
		Files:       report.Files,
		InputBytes:  report.InputBytes,
		OutputBytes: report.OutputBytes,
		Runs:        report.Runs,
		Seconds:     report.Elapsed.Seconds(),
	}
}

func main() {
	os.Exit(command.Run(newApp(os.Stdout, os.Stderr), os.Args, os.Stderr))
}

func newApp(stdout, stderr io.Writer) *cli.App {
	logger := command.NewLogger(stderr)
	return &cli.App{
		Name:            "zipbench",
		Usage:           "Time the parallel, sequential, and per-file encoders",
		ArgsUsage:       "[--] FILE...",
		Description:     command.PathsDescription,
		HideHelpCommand: true,
		Writer:          stderr,
		ErrWriter:       stderr,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "rounds",
				Usage: "number of times to run each encoder",
				Value: 1,
			},
			&cli.IntFlag{
				Name:    "page-size",
				EnvVars: []string{"PZIP_PAGE_SIZE"},
				Value:   pipeline.DefaultPageSize,
			},
			&cli.IntFlag{
				Name:    "queue-capacity",
				EnvVars: []string{"PZIP_QUEUE_CAPACITY"},
				Value:   pipeline.DefaultQueueCapacity,
			},
			&cli.IntFlag{
				Name:    "workers",
				EnvVars: []string{"PZIP_WORKERS"},
				Value:   pipeline.DefaultWorkers(),
			},
		},
		Action: func(context *cli.Context) error {
			config := pipeline.DefaultConfig()
			config.PageSize = context.Int("page-size")
			config.QueueCapacity = context.Int("queue-capacity")
			config.Workers = context.Int("workers")

			rows, err := runBenchmarks(
				context.Args().Slice(), config, context.Int("rounds"), logger,
			)
			if err != nil {
				return err
			}
			return gocsv.Marshal(rows, stdout)
		},
	}
}

// runBenchmarks discards the compressed output. Per-encoder logging is turned
// off so it doesn't skew the timings; one report is logged per run instead.
func runBenchmarks(
	paths []string, config pipeline.Config, rounds int, logger zerolog.Logger,
) ([]benchmarkRow, error) {
	encoders := []func() (pipeline.Report, error){
		func() (pipeline.Report, error) {
			return pipeline.Compress(paths, config, io.Discard)
		},
		func() (pipeline.Report, error) {
			return pipeline.CompressSequential(paths, zerolog.Nop(), io.Discard)
		},
		func() (pipeline.Report, error) {
			return pipeline.CompressPerFile(paths, zerolog.Nop(), io.Discard)
		},
	}

	var rows []benchmarkRow
	for round := 0; round < rounds; round++ {
		for _, encode := range encoders {
			report, err := encode()
			if err != nil {
				return nil, err
			}
			report.Log(logger)
			rows = append(rows, newRow(report))
		}
	}
	return rows, nil
}
