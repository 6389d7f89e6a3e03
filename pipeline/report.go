package pipeline

import (
	"time"

	"github.com/rs/zerolog"
)

// Encoder names used in reports.
const (
	EncoderParallel   = "pzip"
	EncoderSequential = "wzip"
	EncoderPerFile    = "ineffzip"
)

// Report summarizes one compression run.
type Report struct {
	Encoder string
	// Workers is the number of goroutines that encoded data.
	Workers int
	Files   int
	// Skipped holds one error per input that was left out.
	Skipped    []error
	Pages      int
	InputBytes int64
	Runs       int
	// MergedBoundaries counts the runs folded across page boundaries.
	MergedBoundaries int
	OutputBytes      int64
	Elapsed          time.Duration
}

// Log writes the report as a single info event. This is the timing diagnostic
// the binaries print.
func (report Report) Log(logger zerolog.Logger) {
	logger.Info().
		Str("encoder", report.Encoder).
		Int("workers", report.Workers).
		Int("files", report.Files).
		Int("skipped", len(report.Skipped)).
		Int("pages", report.Pages).
		Int64("input_bytes", report.InputBytes).
		Int64("output_bytes", report.OutputBytes).
		Dur("elapsed", report.Elapsed).
		Msgf("%s time is %f seconds", report.Encoder, report.Elapsed.Seconds())
}
