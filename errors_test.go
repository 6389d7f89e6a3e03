package pzip_test

import (
	"errors"
	"testing"

	"github.com/dargueta/pzip"
	"github.com/stretchr/testify/assert"
)

func TestPzipErrorWithMessage(t *testing.T) {
	newErr := pzip.ErrFatalIO.WithMessage("asdfqwerty")
	assert.Equal(
		t, "Fatal input/output error: asdfqwerty", newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, pzip.ErrFatalIO)
	assert.NotErrorIs(t, newErr, pzip.ErrRecoverableFile)
}

func TestPzipErrorWrap(t *testing.T) {
	originalErr := errors.New("original error")
	newErr := pzip.ErrRecoverableFile.Wrap(originalErr)
	expectedMessage := "File skipped: original error"

	assert.EqualValues(t, expectedMessage, newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, originalErr, "original error not set as parent")
	assert.ErrorIs(t, newErr, pzip.ErrRecoverableFile, "pzip error not set as parent")
	assert.NotErrorIs(t, newErr, pzip.ErrFatalIO)
}

func TestPzipErrorChainedMessages(t *testing.T) {
	originalErr := errors.New("mmap: no such device")
	newErr := pzip.ErrFatalIO.WithMessage("a.txt").Wrap(originalErr)

	assert.Equal(
		t,
		"Fatal input/output error: a.txt: mmap: no such device",
		newErr.Error(),
	)
	assert.ErrorIs(t, newErr, pzip.ErrFatalIO)
	assert.ErrorIs(t, newErr, originalErr)
}
