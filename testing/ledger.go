package testing

import (
	"fmt"
	"sync"

	"github.com/boljen/go-bitmap"
)

// SlotLedger records which results slots have been claimed, so stress tests
// can prove that no two writers ever share a slot. It's safe for concurrent
// use.
type SlotLedger struct {
	mu         sync.Mutex
	claimed    bitmap.Bitmap
	totalSlots int
	collisions []int
}

func NewSlotLedger(totalSlots int) *SlotLedger {
	return &SlotLedger{
		claimed:    bitmap.New(totalSlots),
		totalSlots: totalSlots,
	}
}

// Claim marks a slot as taken. It returns an error if the slot is out of range
// or was already claimed.
func (ledger *SlotLedger) Claim(slot int) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	if slot < 0 || slot >= ledger.totalSlots {
		return fmt.Errorf("slot %d not in [0, %d)", slot, ledger.totalSlots)
	}
	if ledger.claimed.Get(slot) {
		ledger.collisions = append(ledger.collisions, slot)
		return fmt.Errorf("slot %d claimed twice", slot)
	}
	ledger.claimed.Set(slot, true)
	return nil
}

// Collisions returns every slot that was claimed more than once.
func (ledger *SlotLedger) Collisions() []int {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	return append([]int(nil), ledger.collisions...)
}

// Unclaimed returns every slot nobody claimed.
func (ledger *SlotLedger) Unclaimed() []int {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	var unclaimed []int
	for slot := 0; slot < ledger.totalSlots; slot++ {
		if !ledger.claimed.Get(slot) {
			unclaimed = append(unclaimed, slot)
		}
	}
	return unclaimed
}
