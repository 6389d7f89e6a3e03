//go:build !unix

package mmap

import (
	"io"
	"os"
)

// Platforms without mmap(2) get a private copy of the file instead.
func mapFile(file *os.File, size int) ([]byte, func([]byte) error, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(file, 0, int64(size)), data); err != nil {
		return nil, nil, err
	}
	return data, func([]byte) error { return nil }, nil
}
