package pipeline

import (
	"sync/atomic"

	"github.com/dargueta/pzip/utilities/compression"
	"github.com/rs/zerolog"
)

// Worker pops pages off the queue, encodes them, and stores the results.
type Worker struct {
	id      int
	layout  *Layout
	queue   *PageQueue
	results *ResultsTable
	// aborted is shared by every worker of a run. Once it's set, workers keep
	// popping so the producer can never block on a full queue, but stop
	// encoding.
	aborted *atomic.Bool
	logger  zerolog.Logger

	pagesDone int
}

// NewWorker returns a worker that shares `aborted` with the rest of its pool.
func NewWorker(
	id int,
	layout *Layout,
	queue *PageQueue,
	results *ResultsTable,
	aborted *atomic.Bool,
	logger zerolog.Logger,
) *Worker {
	return &Worker{
		id:      id,
		layout:  layout,
		queue:   queue,
		results: results,
		aborted: aborted,
		logger:  logger.With().Int("worker", id).Logger(),
	}
}

// Run processes pages until the queue is finished. The first error aborts the
// whole run and is returned once the queue has drained.
func (worker *Worker) Run() error {
	var firstErr error
	for {
		descriptor, ok := worker.queue.Pop()
		if !ok {
			break
		}

		if worker.aborted.Load() {
			worker.releasePage(descriptor)
			continue
		}

		if err := worker.process(descriptor); err != nil {
			worker.logger.Error().
				Err(err).
				Int("file", descriptor.FileIndex).
				Int("page", descriptor.PageIndex).
				Msg("failed to compress page")
			worker.aborted.Store(true)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	worker.logger.Debug().Int("pages", worker.pagesDone).Msg("worker finished")
	return firstErr
}

func (worker *Worker) process(descriptor PageDescriptor) error {
	defer worker.releasePage(descriptor)

	index, err := worker.layout.GlobalIndex(descriptor.FileIndex, descriptor.PageIndex)
	if err != nil {
		return err
	}

	var page compression.CompressedPage
	err = descriptor.Page.Read(func(data []byte) error {
		var encodeErr error
		page, encodeErr = compression.Encode(data)
		return encodeErr
	})
	if err != nil {
		return err
	}

	if err := worker.results.Store(index, page); err != nil {
		return err
	}
	worker.pagesDone++
	return nil
}

// releasePage drops the worker's reference on a page. Failing to unmap doesn't
// affect the output, so it's only logged.
func (worker *Worker) releasePage(descriptor PageDescriptor) {
	if err := descriptor.Page.Release(); err != nil {
		worker.logger.Warn().
			Err(err).
			Int("file", descriptor.FileIndex).
			Int("page", descriptor.PageIndex).
			Msg("failed to release page")
	}
}
