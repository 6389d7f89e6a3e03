package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dargueta/pzip"
	"github.com/dargueta/pzip/utilities/compression"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/iter"
)

type fileRuns struct {
	runs []compression.Run
	size int64
}

// CompressPerFile encodes every input in its own goroutine, with no queue and
// no paging, then writes the results in argument order. The output is
// identical to [CompressSequential].
//
// Each input is held fully encoded in memory until all of them are done.
// Nothing is written if any input fails.
func CompressPerFile(
	paths []string, logger zerolog.Logger, output io.Writer,
) (Report, error) {
	start := time.Now()
	report := Report{Encoder: EncoderPerFile, Workers: len(paths), Files: len(paths)}
	if len(paths) == 0 {
		return report, pzip.ErrInvalidArgument.WithMessage("no input files")
	}

	mapper := iter.Mapper[string, fileRuns]{MaxGoroutines: len(paths)}
	encoded, err := mapper.MapErr(paths, func(path *string) (fileRuns, error) {
		return encodeFileToRuns(*path, logger)
	})
	if err != nil {
		return report, err
	}

	writer := bufio.NewWriter(output)
	for _, file := range encoded {
		n, err := compression.WriteRecords(writer, file.runs)
		report.OutputBytes += n
		report.InputBytes += file.size
		report.Runs += len(file.runs)
		if err != nil {
			return report, pzip.ErrFatalIO.WithMessage("failed to write output").Wrap(err)
		}
	}
	if err := writer.Flush(); err != nil {
		return report, pzip.ErrFatalIO.WithMessage("failed to write output").Wrap(err)
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

func encodeFileToRuns(path string, logger zerolog.Logger) (fileRuns, error) {
	file, err := os.Open(path)
	if err != nil {
		return fileRuns{}, pzip.ErrFatalIO.WithMessage(
			fmt.Sprintf("failed to open %s", path),
		).Wrap(err)
	}
	defer file.Close()

	counter := &countingReader{r: file}
	runs, err := compression.EncodeAll(counter)
	if err != nil {
		return fileRuns{}, pzip.ErrFatalIO.WithMessage(
			fmt.Sprintf("failed to compress %s", path),
		).Wrap(err)
	}

	logger.Debug().Str("path", path).Int("runs", len(runs)).Msg("encoded file")
	return fileRuns{runs: runs, size: counter.n}, nil
}
