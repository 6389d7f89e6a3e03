package compression

import (
	"bytes"
	"fmt"
	"math"

	"github.com/dargueta/pzip"
)

// MaxRunLength is the longest run a single [Run] can describe.
const MaxRunLength = math.MaxUint32

// Run represents a single run of a particular byte value.
type Run struct {
	// Length gives the number of times Symbol occurs in the run. Runs produced
	// by the encoder always have a length of at least 1.
	Length uint32
	// Symbol is the byte value for this run.
	Symbol byte
}

// Expand returns the bytes the run stands for.
func (run Run) Expand() []byte {
	return bytes.Repeat([]byte{run.Symbol}, int(run.Length))
}

// CompressedPage is the encoded form of one contiguous byte range.
type CompressedPage struct {
	Runs []Run
	// SourceSize is the number of bytes that were encoded.
	SourceSize int
}

// ExpandedSize returns the number of bytes the runs expand to. For a page fresh
// out of [Encode] this is equal to SourceSize.
func (page CompressedPage) ExpandedSize() int {
	total := 0
	for _, run := range page.Runs {
		total += int(run.Length)
	}
	return total
}

// FirstRun returns a pointer to the first run of the page, or nil if the page
// has no runs.
func (page *CompressedPage) FirstRun() *Run {
	if len(page.Runs) == 0 {
		return nil
	}
	return &page.Runs[0]
}

// LastRun returns a pointer to the last run of the page, or nil if the page has
// no runs.
func (page *CompressedPage) LastRun() *Run {
	if len(page.Runs) == 0 {
		return nil
	}
	return &page.Runs[len(page.Runs)-1]
}

// Encode scans `data` from left to right and emits one run for each maximal run
// of identical bytes. Encoding an empty slice gives a page with no runs.
//
// The run list grows as needed; nothing is allocated for the worst case up
// front.
func Encode(data []byte) (CompressedPage, error) {
	page := CompressedPage{SourceSize: len(data)}

	for start := 0; start < len(data); {
		end := start + 1
		for end < len(data) && data[end] == data[start] {
			end++
		}

		runLength := end - start
		if uint64(runLength) > MaxRunLength {
			return CompressedPage{}, pzip.ErrRunTooLong.WithMessage(
				fmt.Sprintf(
					"run of %d bytes of %#02x at offset %d", runLength, data[start], start,
				),
			)
		}

		page.Runs = append(page.Runs, Run{Length: uint32(runLength), Symbol: data[start]})
		start = end
	}
	return page, nil
}

// Decode expands each run in order and returns the concatenated bytes.
func Decode(runs []Run) []byte {
	return AppendDecoded(nil, runs)
}

// AppendDecoded expands `runs` onto the end of `dst` and returns the extended
// slice.
func AppendDecoded(dst []byte, runs []Run) []byte {
	for _, run := range runs {
		for i := uint32(0); i < run.Length; i++ {
			dst = append(dst, run.Symbol)
		}
	}
	return dst
}
