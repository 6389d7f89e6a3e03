package pipeline

import (
	"fmt"
	"os"

	"github.com/dargueta/pzip"
	"github.com/dargueta/pzip/pipeline/pagequeue"
	"github.com/dargueta/pzip/utilities/mmap"
	"github.com/rs/zerolog"
)

// PageDescriptor identifies one page of one input. It holds a reference on the
// mapping the page lives in; the worker that pops it must call Page.Release
// once it's done with the bytes.
type PageDescriptor struct {
	FileIndex int
	PageIndex int
	Page      *mmap.View
}

// PageQueue carries page descriptors from the producer to the workers.
type PageQueue = pagequeue.Queue[PageDescriptor]

// MapFunc maps the first `size` bytes of an open file.
type MapFunc func(file *os.File, size int64) (*mmap.Region, error)

// Producer maps each input and queues its pages in (file, page) order.
type Producer struct {
	layout  *Layout
	queue   *PageQueue
	mapFile MapFunc
	logger  zerolog.Logger
}

// NewProducer returns a producer that maps files with [mmap.Map].
func NewProducer(layout *Layout, queue *PageQueue, logger zerolog.Logger) *Producer {
	return &Producer{
		layout:  layout,
		queue:   queue,
		mapFile: mmap.Map,
		logger:  logger,
	}
}

// Run queues every page of every non-skipped input, then marks the queue done.
// The queue is marked done even if Run fails, so workers never wait on a
// producer that has given up.
//
// A mapping failure stops production and returns an error wrapping
// [pzip.ErrFatalIO].
func (producer *Producer) Run() error {
	defer producer.queue.MarkProducerDone()

	for fileIndex := range producer.layout.Files {
		entry := &producer.layout.Files[fileIndex]
		if entry.Skipped != nil {
			continue
		}

		if err := producer.queueFile(fileIndex, entry); err != nil {
			return err
		}
	}
	return nil
}

func (producer *Producer) queueFile(fileIndex int, entry *FileLayout) error {
	region, err := producer.mapFile(entry.file, entry.Size)
	// The mapping doesn't need the descriptor once it exists.
	closeErr := entry.closeFile()
	if err != nil {
		return pzip.ErrFatalIO.WithMessage(
			fmt.Sprintf("failed to map %s", entry.Path),
		).Wrap(err)
	}
	if closeErr != nil {
		producer.logger.Warn().Str("path", entry.Path).Err(closeErr).Msg("failed to close file")
	}

	// The region stays mapped until its last page has been released by a
	// worker.
	defer func() {
		if err := region.Close(); err != nil {
			producer.logger.Warn().Str("path", entry.Path).Err(err).Msg("failed to unmap file")
		}
	}()

	offset := 0
	for pageIndex := 0; pageIndex < entry.PageCount; pageIndex++ {
		length := producer.layout.PageLength(fileIndex, pageIndex)
		view, err := region.View(offset, length)
		if err != nil {
			return err
		}

		descriptor := PageDescriptor{
			FileIndex: fileIndex,
			PageIndex: pageIndex,
			Page:      view,
		}
		if err := producer.queue.Push(descriptor); err != nil {
			view.Release()
			return err
		}
		offset += producer.layout.PageSize
	}

	producer.logger.Debug().
		Str("path", entry.Path).
		Int("pages", entry.PageCount).
		Msg("queued file")
	return nil
}
