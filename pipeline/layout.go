package pipeline

import (
	"fmt"
	"os"

	"github.com/dargueta/pzip"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// FileLayout describes how one input is split into pages.
type FileLayout struct {
	Path string
	Size int64
	// PageCount is zero for skipped files.
	PageCount int
	// FirstPage is the global index of the file's first page: the sum of the
	// page counts of every file before it.
	FirstPage    int
	LastPageSize int
	// Skipped is non-nil if the file was left out, and wraps
	// [pzip.ErrRecoverableFile].
	Skipped error

	file *os.File
}

// Layout is the page geometry of every input, in argument order. It's built
// before any page is queued and never changes afterwards, so workers may read
// it without synchronization.
type Layout struct {
	Files      []FileLayout
	PageSize   int
	TotalPages int
}

// PlanLayout opens every input and computes its page geometry.
//
// An input that can't be opened is fatal, and the returned error wraps
// [pzip.ErrFatalIO]. An input that can't be stat'ed or is empty is skipped
// with a warning and gets zero pages, so the global indexes of the files after
// it are unaffected.
//
// On success the files of non-skipped inputs remain open until the producer
// maps them or [Layout.Close] is called.
func PlanLayout(paths []string, pageSize int, logger zerolog.Logger) (*Layout, error) {
	return planLayout(paths, pageSize, logger, (*os.File).Stat)
}

// statFunc returns the metadata of an open input.
type statFunc func(file *os.File) (os.FileInfo, error)

func planLayout(
	paths []string, pageSize int, logger zerolog.Logger, stat statFunc,
) (*Layout, error) {
	if pageSize < 1 {
		return nil, pzip.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("page size must be positive, got %d", pageSize),
		)
	}

	layout := &Layout{
		Files:    make([]FileLayout, len(paths)),
		PageSize: pageSize,
	}

	for i, path := range paths {
		entry := &layout.Files[i]
		entry.Path = path
		entry.FirstPage = layout.TotalPages

		file, err := os.Open(path)
		if err != nil {
			layout.Close()
			return nil, pzip.ErrFatalIO.WithMessage(
				fmt.Sprintf("failed to open %s", path),
			).Wrap(err)
		}

		info, err := stat(file)
		if err != nil {
			file.Close()
			entry.Skipped = pzip.ErrRecoverableFile.WithMessage(
				fmt.Sprintf("failed to stat %s", path),
			).Wrap(err)
			logger.Warn().Str("path", path).Err(err).Msg("can't stat file, skipping it")
			continue
		}
		if info.IsDir() {
			file.Close()
			layout.Close()
			return nil, pzip.ErrFatalIO.WithMessage(fmt.Sprintf("%s is a directory", path))
		}
		if info.Size() == 0 {
			file.Close()
			entry.Skipped = pzip.ErrRecoverableFile.WithMessage(
				fmt.Sprintf("%s is empty", path),
			)
			logger.Warn().Str("path", path).Msg("file is empty, skipping it")
			continue
		}

		entry.Size = info.Size()
		entry.PageCount = int((entry.Size + int64(pageSize) - 1) / int64(pageSize))
		entry.LastPageSize = int(entry.Size % int64(pageSize))
		if entry.LastPageSize == 0 {
			entry.LastPageSize = pageSize
		}
		entry.file = file
		layout.TotalPages += entry.PageCount
	}
	return layout, nil
}

// GlobalIndex returns the position of a page in the output: the sum of the page
// counts of all files before `fileIndex`, plus `pageIndex`.
func (layout *Layout) GlobalIndex(fileIndex, pageIndex int) (int, error) {
	if fileIndex < 0 || fileIndex >= len(layout.Files) {
		return 0, pzip.ErrQueueInvariant.WithMessage(
			fmt.Sprintf("file %d not in [0, %d)", fileIndex, len(layout.Files)),
		)
	}

	entry := &layout.Files[fileIndex]
	if pageIndex < 0 || pageIndex >= entry.PageCount {
		return 0, pzip.ErrQueueInvariant.WithMessage(
			fmt.Sprintf(
				"page %d of %s not in [0, %d)", pageIndex, entry.Path, entry.PageCount,
			),
		)
	}
	return entry.FirstPage + pageIndex, nil
}

// PageLength returns the size of a page in bytes. Every page but the last of a
// file is exactly PageSize bytes.
func (layout *Layout) PageLength(fileIndex, pageIndex int) int {
	entry := &layout.Files[fileIndex]
	if pageIndex == entry.PageCount-1 {
		return entry.LastPageSize
	}
	return layout.PageSize
}

// InputBytes returns the total size of all non-skipped inputs.
func (layout *Layout) InputBytes() int64 {
	total := int64(0)
	for _, entry := range layout.Files {
		total += entry.Size
	}
	return total
}

// SkippedFiles returns the reasons each skipped input was left out.
func (layout *Layout) SkippedFiles() []error {
	var skipped []error
	for _, entry := range layout.Files {
		if entry.Skipped != nil {
			skipped = append(skipped, entry.Skipped)
		}
	}
	return skipped
}

// Close closes every input file that hasn't been handed off to the producer
// yet.
func (layout *Layout) Close() error {
	var result *multierror.Error
	for i := range layout.Files {
		if err := layout.Files[i].closeFile(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (entry *FileLayout) closeFile() error {
	if entry.file == nil {
		return nil
	}
	err := entry.file.Close()
	entry.file = nil
	return err
}
