package pipeline

import (
	"fmt"
	"runtime"

	"github.com/dargueta/pzip"
	"github.com/dargueta/pzip/utilities/compression"
	"github.com/rs/zerolog"
)

const (
	// DefaultPageSize is the number of input bytes each worker encodes at a
	// time.
	DefaultPageSize = 1000000
	// DefaultQueueCapacity is the number of pages that may be waiting for a
	// worker at once.
	DefaultQueueCapacity = 10
)

// Config controls the parallel pipeline.
type Config struct {
	PageSize      int
	QueueCapacity int
	// Workers is the number of compression goroutines. The producer runs in
	// addition to these.
	Workers int
	Logger  zerolog.Logger
}

// DefaultWorkers leaves one CPU for the producer and gives the rest to
// workers, with a minimum of one.
func DefaultWorkers() int {
	return max(runtime.NumCPU()-1, 1)
}

func DefaultConfig() Config {
	return Config{
		PageSize:      DefaultPageSize,
		QueueCapacity: DefaultQueueCapacity,
		Workers:       DefaultWorkers(),
		Logger:        zerolog.Nop(),
	}
}

// Validate returns an error wrapping [pzip.ErrInvalidArgument] if any setting
// is out of range.
func (config Config) Validate() error {
	// A page can be a single run, so it must fit in a run length.
	if config.PageSize < 1 || uint64(config.PageSize) > compression.MaxRunLength {
		return pzip.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"page size must be in [1, %d], got %d",
				uint64(compression.MaxRunLength),
				config.PageSize,
			),
		)
	}
	if config.QueueCapacity < 1 {
		return pzip.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("queue capacity must be at least 1, got %d", config.QueueCapacity),
		)
	}
	if config.Workers < 1 {
		return pzip.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("need at least one worker, got %d", config.Workers),
		)
	}
	return nil
}
