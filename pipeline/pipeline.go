// Package pipeline implements the parallel paging compressor and the two
// simpler encoders it's measured against.
//
// The parallel compressor runs in three stages. A single producer maps each
// input into memory and queues its pages on a bounded queue. A pool of workers
// pops pages, encodes them, and stores each result in its own slot of a table
// indexed by the page's global position. Once every worker has finished, the
// assembler walks the table in order, folds runs split by page boundaries back
// together, and writes the records out in one go.
//
// Slot indexes are a pure function of the page geometry, which is computed
// before the first page is queued, so no two workers ever write the same slot
// and the table needs no lock. The output is independent of the number of
// workers and of the order in which they finish.
package pipeline

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/dargueta/pzip"
	"github.com/dargueta/pzip/pipeline/pagequeue"
	"github.com/hashicorp/go-multierror"
	"github.com/sourcegraph/conc/pool"
)

// Compress encodes the inputs, in order, as one logical byte stream and writes
// the records to `output`.
//
// Nothing is written to `output` unless every input was read successfully.
// Errors wrap [pzip.ErrFatalIO] for inputs that can't be opened or mapped,
// [pzip.ErrInvalidArgument] for bad configuration, or
// [pzip.ErrQueueInvariant] for internal failures.
func Compress(paths []string, config Config, output io.Writer) (Report, error) {
	return compress(paths, config, output, nil)
}

func compress(
	paths []string, config Config, output io.Writer, mapFile MapFunc,
) (Report, error) {
	start := time.Now()
	report := Report{
		Encoder: EncoderParallel,
		Workers: config.Workers,
		Files:   len(paths),
	}

	if len(paths) == 0 {
		return report, pzip.ErrInvalidArgument.WithMessage("no input files")
	}
	if err := config.Validate(); err != nil {
		return report, err
	}
	logger := config.Logger

	layout, err := PlanLayout(paths, config.PageSize, logger)
	if err != nil {
		return report, err
	}
	defer layout.Close()

	report.Skipped = layout.SkippedFiles()
	report.Pages = layout.TotalPages
	report.InputBytes = layout.InputBytes()

	queue, err := pagequeue.New[PageDescriptor](config.QueueCapacity)
	if err != nil {
		return report, err
	}
	results := NewResultsTable(layout.TotalPages)

	var aborted atomic.Bool
	workers := pool.New().WithErrors()
	for id := 0; id < config.Workers; id++ {
		worker := NewWorker(id, layout, queue, results, &aborted, logger)
		workers.Go(worker.Run)
	}

	producer := NewProducer(layout, queue, logger)
	if mapFile != nil {
		producer.mapFile = mapFile
	}

	var errs *multierror.Error
	if err := producer.Run(); err != nil {
		aborted.Store(true)
		errs = multierror.Append(errs, err)
	}
	if err := workers.Wait(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if errs != nil {
		if len(errs.Errors) == 1 {
			return report, errs.Errors[0]
		}
		return report, errs
	}

	pages, err := results.Pages()
	if err != nil {
		return report, err
	}

	assembler := NewAssembler(pages)
	report.MergedBoundaries = assembler.MergeBoundaries()
	report.Runs = assembler.RunCount()

	report.OutputBytes, err = assembler.WriteTo(output)
	report.Elapsed = time.Since(start)
	if err != nil {
		return report, pzip.ErrFatalIO.WithMessage("failed to write output").Wrap(err)
	}
	return report, nil
}
