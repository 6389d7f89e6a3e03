package pzip

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// PipelineError is the error type returned by every package in this module.
// Each value can be compared with [errors.Is] against the sentinels below.
type PipelineError interface {
	error
	WithMessage(message string) PipelineError
	Wrap(err error) PipelineError
}

type basePzipError string

const rootError = basePzipError("")

// ErrFatalIO is returned when an input can't be opened or memory-mapped. The
// whole run is aborted and nothing is written to the output.
var ErrFatalIO = rootError.WithMessage("Fatal input/output error")

// ErrRecoverableFile marks an input that was skipped because it couldn't be
// stat'ed or is empty. Processing continues with the remaining inputs.
var ErrRecoverableFile = rootError.WithMessage("File skipped")

// ErrQueueInvariant indicates a broken internal contract, such as a queue size
// outside its bounds or a results slot written twice. It never occurs in
// correct code.
var ErrQueueInvariant = rootError.WithMessage("Internal invariant violated")

var ErrInvalidArgument = rootError.WithMessage("Invalid argument")
var ErrRunTooLong = rootError.WithMessage("Run length exceeds 32 bits")

// ErrTruncatedStream is returned by decoders when the input ends in the middle
// of a record.
var ErrTruncatedStream = rootError.WithMessage("Truncated record")

func (e basePzipError) Error() string {
	return string(e)
}

func (e basePzipError) WithMessage(message string) PipelineError {
	return customPipelineError{
		message:       message,
		originalError: e,
	}
}

func (e basePzipError) Wrap(err error) PipelineError {
	return customPipelineError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customPipelineError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customPipelineError) Error() string {
	return e.message
}

func (e customPipelineError) WithMessage(message string) PipelineError {
	return customPipelineError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customPipelineError) Wrap(err error) PipelineError {
	return customPipelineError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customPipelineError) Unwrap() error {
	return e.originalError
}
