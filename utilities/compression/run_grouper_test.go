package compression_test

import (
	"bytes"
	"io"
	"testing"

	c "github.com/dargueta/pzip/utilities/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type groupingTestCase struct {
	Data           []byte
	ExpectedResult c.Run
	Name           string
}

var groupingTestCases = []groupingTestCase{
	{[]byte{}, c.Run{}, "empty"},
	{[]byte{0, 0, 1, 0, 0, 0, 0}, c.Run{Length: 2, Symbol: 0}, "two initial"},
	{[]byte{6, 1, 5, 20, 31}, c.Run{Length: 1, Symbol: 6}, "one byte"},
	{[]byte{9, 9, 9, 9, 9, 9}, c.Run{Length: 6, Symbol: 9}, "entire run"},
}

func TestRunGrouper__Basic(t *testing.T) {
	for _, test := range groupingTestCases {
		t.Run(
			test.Name,
			func(t *testing.T) {
				grouper := c.NewRunGrouper(bytes.NewBuffer(test.Data))
				result, _ := grouper.GetNextRun()
				assert.Equal(t, test.ExpectedResult, result)
			},
		)
	}
}

func TestRunGrouper__Sequence(t *testing.T) {
	data := []byte{1, 9, 4, 4, 4, 4, 4, 6, 6, 0, 1, 0, 0, 0}
	expected := []c.Run{
		{1, 1}, {1, 9}, {5, 4}, {2, 6}, {1, 0}, {1, 1}, {3, 0},
	}

	grouper := c.NewRunGrouper(bytes.NewBuffer(data))
	for i, expectedRun := range expected {
		result, err := grouper.GetNextRun()
		require.NoErrorf(t, err, "run %d", i)
		assert.Equalf(t, expectedRun, result, "run %d is wrong", i)
	}

	result, err := grouper.GetNextRun()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, c.Run{}, result)
}

// The grouper must agree with Encode on every input.
func TestRunGrouper__MatchesEncode(t *testing.T) {
	data := []byte("aaabbbbcddddddddde\x00\x00\x00ffa")

	page, err := c.Encode(data)
	require.NoError(t, err)

	var grouped []c.Run
	grouper := c.NewRunGrouper(bytes.NewReader(data))
	for {
		run, err := grouper.GetNextRun()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		grouped = append(grouped, run)
	}
	assert.Equal(t, page.Runs, grouped)
}
