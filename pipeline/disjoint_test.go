package pipeline_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dargueta/pzip/pipeline"
	"github.com/dargueta/pzip/pipeline/pagequeue"
	ptesting "github.com/dargueta/pzip/testing"
	c "github.com/dargueta/pzip/utilities/compression"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs the real producer against consumers that claim each page's slot in a
// ledger before storing it. No slot may be claimed twice and none may be left
// over, for any number of consumers.
func TestResultsTable__DisjointUnderStress(t *testing.T) {
	contents := [][]byte{
		ptesting.CreateRunnyData(51, 30000, 3, 12),
		{},
		ptesting.CreateRunnyData(52, 1, 1, 1),
		ptesting.CreateRunnyData(53, 17000, 2, 40),
	}
	paths := ptesting.WriteInputFiles(t, contents...)

	for _, workers := range []int{1, 2, 8} {
		t.Run(
			fmt.Sprintf("workers=%d", workers),
			func(t *testing.T) {
				runDisjointnessCheck(t, paths, workers, ptesting.ConcatInputs(contents...))
			},
		)
	}
}

func runDisjointnessCheck(t *testing.T, paths []string, workers int, expected []byte) {
	layout, err := pipeline.PlanLayout(paths, 97, zerolog.Nop())
	require.NoError(t, err)
	defer layout.Close()

	queue, err := pagequeue.New[pipeline.PageDescriptor](4)
	require.NoError(t, err)
	results := pipeline.NewResultsTable(layout.TotalPages)
	ledger := ptesting.NewSlotLedger(layout.TotalPages)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				descriptor, ok := queue.Pop()
				if !ok {
					return
				}

				index, err := layout.GlobalIndex(descriptor.FileIndex, descriptor.PageIndex)
				assert.NoError(t, err)
				assert.NoError(t, ledger.Claim(index))

				err = descriptor.Page.Read(func(data []byte) error {
					page, err := c.Encode(data)
					if err != nil {
						return err
					}
					return results.Store(index, page)
				})
				assert.NoError(t, err)
				assert.NoError(t, descriptor.Page.Release())
			}
		}()
	}

	producer := pipeline.NewProducer(layout, queue, zerolog.Nop())
	require.NoError(t, producer.Run())
	wg.Wait()

	assert.Empty(t, ledger.Collisions(), "slots written by more than one worker")
	assert.Empty(t, ledger.Unclaimed(), "slots never written")

	pages, err := results.Pages()
	require.NoError(t, err)
	output := pipeline.NewAssembler(pages).Bytes()
	assert.Equal(t, expected, ptesting.DecodeOutput(t, output))
}

func TestProducer__QueuesPagesInOrder(t *testing.T) {
	paths := ptesting.WriteInputFiles(t, []byte("abcdefg"), []byte{}, []byte("hij"))
	layout, err := pipeline.PlanLayout(paths, 3, zerolog.Nop())
	require.NoError(t, err)
	defer layout.Close()

	// Big enough that the producer never blocks.
	queue, err := pagequeue.New[pipeline.PageDescriptor](16)
	require.NoError(t, err)
	require.NoError(t, pipeline.NewProducer(layout, queue, zerolog.Nop()).Run())
	assert.True(t, queue.Done())

	expected := []struct {
		File, Page int
		Data       string
	}{
		{0, 0, "abc"}, {0, 1, "def"}, {0, 2, "g"}, {2, 0, "hij"},
	}
	for _, want := range expected {
		descriptor, ok := queue.Pop()
		require.True(t, ok)
		assert.Equal(t, want.File, descriptor.FileIndex)
		assert.Equal(t, want.Page, descriptor.PageIndex)

		err := descriptor.Page.Read(func(data []byte) error {
			assert.Equal(t, want.Data, string(data))
			return nil
		})
		require.NoError(t, err)

		region := descriptor.Page.Region()
		require.NoError(t, descriptor.Page.Release())
		if want.Page == layout.Files[want.File].PageCount-1 {
			assert.True(t, region.Unmapped(), "mapping outlived its last page")
		} else {
			assert.False(t, region.Unmapped(), "mapping released before its last page")
		}
	}

	_, ok := queue.Pop()
	assert.False(t, ok)
}
