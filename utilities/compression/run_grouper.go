package compression

import (
	"bufio"
	"errors"
	"io"
)

// RunGrouper splits a byte stream into maximal runs.
type RunGrouper struct {
	rd *bufio.Reader
}

func NewRunGrouper(rd io.Reader) RunGrouper {
	return RunGrouper{rd: bufio.NewReader(rd)}
}

// GetNextRun returns a [Run] for the next byte or run of byte values in the
// stream. At the end of the stream it returns a zero-length run and io.EOF.
//
// A run longer than [MaxRunLength] is returned as several consecutive runs of
// the same symbol, the first ones having the maximum length.
func (grouper RunGrouper) GetNextRun() (Run, error) {
	firstByte, err := grouper.rd.ReadByte()
	// Bail if any error occurred, including EOF.
	if err != nil {
		return Run{}, err
	}

	var runLength uint32
	for runLength = 1; runLength < MaxRunLength; runLength++ {
		currentByte, err := grouper.rd.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Run{}, err
		}
		if currentByte != firstByte {
			// Hit a different byte, back up and return.
			grouper.rd.UnreadByte()
			break
		}
	}
	return Run{Length: runLength, Symbol: firstByte}, nil
}
