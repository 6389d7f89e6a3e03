package compression

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/pzip"
)

// RecordSize is the size of one encoded run on the wire, in bytes.
const RecordSize = 5

// AppendRecord appends the wire encoding of `run` to `dst`.
func AppendRecord(dst []byte, run Run) []byte {
	dst = binary.NativeEndian.AppendUint32(dst, run.Length)
	return append(dst, run.Symbol)
}

// PutRecord writes the wire encoding of `run` into the first [RecordSize] bytes
// of `dst`. It panics if `dst` is too short.
func PutRecord(dst []byte, run Run) {
	binary.NativeEndian.PutUint32(dst[:4], run.Length)
	dst[4] = run.Symbol
}

// WriteRecords writes all the runs to the output as consecutive records. The
// return value is the number of bytes written.
func WriteRecords(output io.Writer, runs []Run) (int64, error) {
	var record [RecordSize]byte
	totalBytesWritten := int64(0)

	for _, run := range runs {
		PutRecord(record[:], run)
		n, err := output.Write(record[:])
		totalBytesWritten += int64(n)
		if err != nil {
			return totalBytesWritten, err
		}
		if n != RecordSize {
			return totalBytesWritten, io.ErrShortWrite
		}
	}
	return totalBytesWritten, nil
}

// RecordReader reads runs back out of a stream of records.
type RecordReader struct {
	rd     *bufio.Reader
	record [RecordSize]byte
}

func NewRecordReader(input io.Reader) *RecordReader {
	return &RecordReader{rd: bufio.NewReader(input)}
}

// Next returns the next run in the stream. At a clean end of the stream it
// returns io.EOF. If the stream ends in the middle of a record, the error
// wraps both [pzip.ErrTruncatedStream] and [io.ErrUnexpectedEOF].
func (reader *RecordReader) Next() (Run, error) {
	n, err := io.ReadFull(reader.rd, reader.record[:])
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Run{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Run{}, pzip.ErrTruncatedStream.WithMessage(
				fmt.Sprintf("got %d of %d bytes", n, RecordSize),
			).Wrap(io.ErrUnexpectedEOF)
		}
		return Run{}, fmt.Errorf("error reading input: %w", err)
	}

	return Run{
		Length: binary.NativeEndian.Uint32(reader.record[:4]),
		Symbol: reader.record[4],
	}, nil
}

// ReadAllRecords reads runs until the end of the stream. On error, the runs
// read so far are returned along with it.
func ReadAllRecords(input io.Reader) ([]Run, error) {
	reader := NewRecordReader(input)
	var runs []Run
	for {
		run, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return runs, nil
		}
		if err != nil {
			return runs, err
		}
		runs = append(runs, run)
	}
}
