package testing_test

import (
	"sync"
	"testing"

	ptesting "github.com/dargueta/pzip/testing"
	"github.com/stretchr/testify/assert"
)

func TestSlotLedger(t *testing.T) {
	ledger := ptesting.NewSlotLedger(10)

	assert.NoError(t, ledger.Claim(3))
	assert.Error(t, ledger.Claim(3))
	assert.Error(t, ledger.Claim(10))
	assert.Error(t, ledger.Claim(-1))

	assert.Equal(t, []int{3}, ledger.Collisions())
	assert.Equal(t, []int{0, 1, 2, 4, 5, 6, 7, 8, 9}, ledger.Unclaimed())
}

func TestSlotLedger__Concurrent(t *testing.T) {
	const slots = 1000
	ledger := ptesting.NewSlotLedger(slots)

	var wg sync.WaitGroup
	for writer := 0; writer < 4; writer++ {
		wg.Add(1)
		go func(writer int) {
			defer wg.Done()
			for slot := writer; slot < slots; slot += 4 {
				assert.NoError(t, ledger.Claim(slot))
			}
		}(writer)
	}
	wg.Wait()

	assert.Empty(t, ledger.Collisions())
	assert.Empty(t, ledger.Unclaimed())
}

func TestCreateRunnyData__Deterministic(t *testing.T) {
	first := ptesting.CreateRunnyData(7, 500, 3, 9)
	second := ptesting.CreateRunnyData(7, 500, 3, 9)

	assert.Len(t, first, 500)
	assert.Equal(t, first, second)
	for _, b := range first {
		assert.Less(t, b, byte(3))
	}
}

func TestConcatInputs(t *testing.T) {
	joined := ptesting.ConcatInputs([]byte("aaa"), nil, []byte("aab"))
	assert.Equal(t, []byte("aaaaab"), joined)
}
