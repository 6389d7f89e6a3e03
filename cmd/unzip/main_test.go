package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dargueta/pzip/internal/command"
	c "github.com/dargueta/pzip/utilities/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCompressed(t *testing.T, name string, runs ...c.Run) string {
	var records []byte
	for _, run := range runs {
		records = c.AppendRecord(records, run)
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, records, 0o644))
	return path
}

func runUnzip(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := command.Run(newApp(&stdout, &stderr), append([]string{"unzip"}, args...), &stderr)
	return code, stdout.String(), stderr.String()
}

func TestUnzip__ExpandsInOrder(t *testing.T) {
	first := writeCompressed(t, "first", c.Run{Length: 3, Symbol: 'a'}, c.Run{Length: 1, Symbol: 'b'})
	second := writeCompressed(t, "second", c.Run{Length: 2, Symbol: 'z'})

	code, stdout, stderr := runUnzip(first, second)
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "aaabzz", stdout)
}

func TestUnzip__TruncatedRecordFails(t *testing.T) {
	path := writeCompressed(t, "good", c.Run{Length: 4, Symbol: 'q'})
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = file.Write([]byte{1, 0})
	require.NoError(t, err)
	require.NoError(t, file.Close())

	code, stdout, stderr := runUnzip(path)
	assert.Equal(t, 1, code)
	assert.Equal(t, "qqqq", stdout, "records before the bad one should still be expanded")
	assert.Contains(t, stderr, "Truncated record")
}

func TestUnzip__Failures(t *testing.T) {
	tests := []struct {
		Name     string
		Args     []string
		Expected string
	}{
		{"no files", nil, "no input files"},
		{"missing file", []string{filepath.Join(t.TempDir(), "nope")}, "failed to open"},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				code, stdout, stderr := runUnzip(test.Args...)
				assert.Equal(t, 1, code)
				assert.Empty(t, stdout)
				assert.Contains(t, stderr, test.Expected)
			},
		)
	}
}
