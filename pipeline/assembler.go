package pipeline

import (
	"io"

	"github.com/dargueta/pzip/utilities/compression"
	"github.com/noxer/bytewriter"
)

// Assembler turns the compressed pages of a run into the final output stream.
type Assembler struct {
	pages  []compression.CompressedPage
	merged bool
	folded int
}

// NewAssembler takes ownership of `pages`, which must be in global page order.
func NewAssembler(pages []compression.CompressedPage) *Assembler {
	return &Assembler{pages: pages}
}

// MergeBoundaries removes run splits caused purely by page boundaries. When the
// last run of a page has the same symbol as the first run of the next page, the
// former is folded into the latter. Folds are skipped if the combined length
// wouldn't fit in a run; the output expands to the same bytes either way.
//
// A page left with no runs passes its neighbor through, so a long run spanning
// many pages collapses into one. MergeBoundaries returns the number of folds
// made; calling it again does nothing.
func (assembler *Assembler) MergeBoundaries() int {
	if assembler.merged {
		return assembler.folded
	}
	assembler.merged = true

	var previous *compression.CompressedPage
	for i := range assembler.pages {
		current := &assembler.pages[i]
		if len(current.Runs) == 0 {
			continue
		}

		if previous != nil {
			last := previous.LastRun()
			first := current.FirstRun()
			combined := uint64(last.Length) + uint64(first.Length)
			if last.Symbol == first.Symbol && combined <= compression.MaxRunLength {
				first.Length = uint32(combined)
				previous.Runs = previous.Runs[:len(previous.Runs)-1]
				assembler.folded++
			}
		}
		previous = current
	}
	return assembler.folded
}

// Runs returns every run of the output in order, merging boundaries first if
// that hasn't been done yet.
func (assembler *Assembler) Runs() []compression.Run {
	assembler.MergeBoundaries()

	runs := make([]compression.Run, 0, assembler.RunCount())
	for _, page := range assembler.pages {
		runs = append(runs, page.Runs...)
	}
	return runs
}

// RunCount returns the number of runs currently held by the pages.
func (assembler *Assembler) RunCount() int {
	total := 0
	for _, page := range assembler.pages {
		total += len(page.Runs)
	}
	return total
}

// Bytes serializes the output into a buffer sized exactly for it.
func (assembler *Assembler) Bytes() []byte {
	assembler.MergeBoundaries()

	buffer := make([]byte, assembler.RunCount()*compression.RecordSize)
	writer := bytewriter.New(buffer)
	for _, page := range assembler.pages {
		// The buffer has room for every run, so this can't fail.
		if _, err := compression.WriteRecords(writer, page.Runs); err != nil {
			panic(err)
		}
	}
	return buffer
}

// WriteTo serializes the output and writes it with a single call to
// output.Write.
func (assembler *Assembler) WriteTo(output io.Writer) (int64, error) {
	buffer := assembler.Bytes()
	if len(buffer) == 0 {
		return 0, nil
	}

	n, err := output.Write(buffer)
	if err == nil && n != len(buffer) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}
