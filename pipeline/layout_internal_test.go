package pipeline

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/dargueta/pzip"
	ptesting "github.com/dargueta/pzip/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanLayout__StatFailureSkipped(t *testing.T) {
	paths := ptesting.WriteInputFiles(t, []byte("aaaa"), []byte("bbbb"), []byte("cc"))
	statErr := errors.New("stale file handle")
	failSecond := func(file *os.File) (os.FileInfo, error) {
		if file.Name() == paths[1] {
			return nil, statErr
		}
		return file.Stat()
	}

	var logs bytes.Buffer
	layout, err := planLayout(paths, 2, zerolog.New(&logs), failSecond)
	require.NoError(t, err)
	defer layout.Close()

	skipped := layout.Files[1]
	assert.ErrorIs(t, skipped.Skipped, pzip.ErrRecoverableFile)
	assert.ErrorIs(t, skipped.Skipped, statErr)
	assert.Equal(t, 0, skipped.PageCount)
	assert.Nil(t, skipped.file, "skipped file left open")

	assert.Equal(t, 2, layout.Files[2].FirstPage, "skipped file shifted later indexes")
	assert.Equal(t, 3, layout.TotalPages)
	assert.EqualValues(t, 6, layout.InputBytes())
	require.Len(t, layout.SkippedFiles(), 1)

	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), `"path":"`+paths[1]+`"`)
	assert.Contains(t, logs.String(), "stale file handle")
}
