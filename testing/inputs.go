package testing

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/dargueta/pzip/utilities/compression"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// WriteInputFiles writes each of `contents` to its own file in a temporary
// directory and returns the paths, in the same order. The files are removed
// when the test ends.
func WriteInputFiles(t *testing.T, contents ...[]byte) []string {
	directory := t.TempDir()
	paths := make([]string, len(contents))

	for i, data := range contents {
		paths[i] = filepath.Join(directory, fmt.Sprintf("input-%03d.bin", i))
		require.NoErrorf(t, os.WriteFile(paths[i], data, 0o644), "failed to write input %d", i)
	}
	return paths
}

// MissingPath returns a path in a temporary directory that doesn't exist.
func MissingPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "does-not-exist")
}

// CreateRunnyData returns `size` pseudorandom bytes drawn from `alphabet`
// distinct symbols, with runs of up to `maxRun` bytes. The same seed always
// gives the same data.
func CreateRunnyData(seed int64, size, alphabet, maxRun int) []byte {
	source := rand.New(rand.NewSource(seed))
	data := make([]byte, 0, size)

	for len(data) < size {
		symbol := byte(source.Intn(alphabet))
		runLength := 1 + source.Intn(maxRun)
		for i := 0; i < runLength && len(data) < size; i++ {
			data = append(data, symbol)
		}
	}
	return data
}

// NewStream returns a seekable stream over a copy of `data`. Writes to the
// stream don't affect `data`.
func NewStream(data []byte) io.ReadWriteSeeker {
	return bytesextra.NewReadWriteSeeker(append([]byte(nil), data...))
}

// DecodeOutput expands a compressed stream back into the original bytes,
// failing the test if the stream is malformed.
func DecodeOutput(t *testing.T, compressed []byte) []byte {
	decoded, err := compression.DecodeStreamToBytes(NewStream(compressed))
	require.NoError(t, err, "compressed output doesn't decode")
	return decoded
}

// ConcatInputs joins the inputs the way the compressors see them: one logical
// byte stream in argument order.
func ConcatInputs(contents ...[]byte) []byte {
	var joined []byte
	for _, data := range contents {
		joined = append(joined, data...)
	}
	return joined
}
