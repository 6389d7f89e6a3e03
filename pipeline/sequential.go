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
)

// CompressSequential is the single-threaded reference encoder. Each input is
// encoded on its own, so a run never continues from one file into the next.
//
// Inputs are processed one at a time and their records are written as soon as
// they're produced. If an input can't be opened, the records of the inputs
// before it have already been written.
func CompressSequential(
	paths []string, logger zerolog.Logger, output io.Writer,
) (Report, error) {
	start := time.Now()
	report := Report{Encoder: EncoderSequential, Workers: 1, Files: len(paths)}
	if len(paths) == 0 {
		return report, pzip.ErrInvalidArgument.WithMessage("no input files")
	}

	counter := &countingWriter{w: output}
	writer := bufio.NewWriter(counter)
	for _, path := range paths {
		size, err := encodeFile(path, writer)
		report.InputBytes += size
		if err != nil {
			writer.Flush()
			report.OutputBytes = counter.n
			return report, err
		}
		if size == 0 {
			logger.Debug().Str("path", path).Msg("file is empty")
		}
	}

	if err := writer.Flush(); err != nil {
		return report, pzip.ErrFatalIO.WithMessage("failed to write output").Wrap(err)
	}
	report.OutputBytes = counter.n
	report.Runs = int(counter.n / compression.RecordSize)
	report.Elapsed = time.Since(start)
	return report, nil
}

func encodeFile(path string, output io.Writer) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, pzip.ErrFatalIO.WithMessage(fmt.Sprintf("failed to open %s", path)).Wrap(err)
	}
	defer file.Close()

	counter := &countingReader{r: file}
	if _, err := compression.EncodeStream(counter, output); err != nil {
		return counter.n, pzip.ErrFatalIO.WithMessage(
			fmt.Sprintf("failed to compress %s", path),
		).Wrap(err)
	}
	return counter.n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (reader *countingReader) Read(p []byte) (int, error) {
	n, err := reader.r.Read(p)
	reader.n += int64(n)
	return n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (writer *countingWriter) Write(p []byte) (int, error) {
	n, err := writer.w.Write(p)
	writer.n += int64(n)
	return n, err
}
