package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// EncodeStream reads bytes from the input and writes records to the output
// until the input is exhausted. The return value is the number of bytes
// written, only valid if no error occurred.
//
// This is the sequential reference encoder. Runs never span two calls, so
// encoding several inputs one after the other restarts the run at each input
// boundary.
func EncodeStream(input io.Reader, output io.Writer) (int64, error) {
	grouper := NewRunGrouper(input)
	writer := bufio.NewWriter(output)

	totalBytesWritten := int64(0)
	for {
		run, err := grouper.GetNextRun()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return totalBytesWritten, fmt.Errorf("error reading input: %w", err)
			}
			break
		}

		n, err := WriteRecords(writer, []Run{run})
		totalBytesWritten += n
		if err != nil {
			return totalBytesWritten, fmt.Errorf("failed to write to output: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return totalBytesWritten, fmt.Errorf("failed to write to output: %w", err)
	}
	return totalBytesWritten, nil
}

// EncodeAll groups the entire input into runs and returns them.
func EncodeAll(input io.Reader) ([]Run, error) {
	grouper := NewRunGrouper(input)
	var runs []Run
	for {
		run, err := grouper.GetNextRun()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return runs, nil
			}
			return runs, fmt.Errorf("error reading input: %w", err)
		}
		runs = append(runs, run)
	}
}

// DecodeStream reads records from the input and writes the expanded bytes to
// the output. The returned int64 is the number of bytes written, i.e. the
// decompressed size.
func DecodeStream(input io.Reader, output io.Writer) (int64, error) {
	reader := NewRecordReader(input)
	writer := bufio.NewWriter(output)
	totalBytesWritten := int64(0)

	for {
		run, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Whatever was decoded before the bad record still goes out.
			writer.Flush()
			return totalBytesWritten, err
		}

		n, err := writeRun(writer, run)
		totalBytesWritten += n
		if err != nil {
			return totalBytesWritten, fmt.Errorf("failed to write to output: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return totalBytesWritten, fmt.Errorf("failed to write to output: %w", err)
	}
	return totalBytesWritten, nil
}

// expandChunkSize bounds the memory used to expand a single run. Merged runs
// can be gigabytes long.
const expandChunkSize = 4096

func writeRun(output io.Writer, run Run) (int64, error) {
	chunk := bytes.Repeat([]byte{run.Symbol}, int(min(run.Length, expandChunkSize)))
	remaining := int64(run.Length)
	totalBytesWritten := int64(0)

	for remaining > 0 {
		size := min(remaining, int64(len(chunk)))
		n, err := output.Write(chunk[:size])
		totalBytesWritten += int64(n)
		if err != nil {
			return totalBytesWritten, err
		}
		remaining -= int64(n)
	}
	return totalBytesWritten, nil
}

// DecodeStreamToBytes is a convenience wrapper around [DecodeStream] that
// returns the decompressed data in a new byte slice.
func DecodeStreamToBytes(input io.Reader) ([]byte, error) {
	var buffer bytes.Buffer
	_, err := DecodeStream(input, &buffer)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
