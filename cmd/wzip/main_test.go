package main

import (
	"bytes"
	"testing"

	"github.com/dargueta/pzip/internal/command"
	ptesting "github.com/dargueta/pzip/testing"
	"github.com/stretchr/testify/assert"
)

func TestWzip(t *testing.T) {
	present := ptesting.WriteInputFiles(t, []byte("aaab"), []byte("bbcc"))
	missing := ptesting.MissingPath(t)

	tests := []struct {
		Name         string
		Args         []string
		ExpectedCode int
		ExpectedRuns int
	}{
		{"two files", present, 0, 4},
		{"no files", nil, 1, 0},
		{"missing only", []string{missing}, 1, 0},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				var stdout, stderr bytes.Buffer
				args := append([]string{"wzip"}, test.Args...)
				code := command.Run(newApp(&stdout, &stderr), args, &stderr)

				assert.Equal(t, test.ExpectedCode, code, stderr.String())
				assert.Equal(t, test.ExpectedRuns*5, stdout.Len())
				if test.ExpectedCode == 0 {
					assert.Contains(t, stderr.String(), "wzip time is")
				} else {
					assert.Contains(t, stderr.String(), "fatal error:")
				}
			},
		)
	}
}
