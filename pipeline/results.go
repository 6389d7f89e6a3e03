package pipeline

import (
	"fmt"

	"github.com/dargueta/pzip"
	"github.com/dargueta/pzip/utilities/compression"
)

// ResultsTable has one slot per page, indexed by global page index. Each slot
// is written by exactly one worker, so stores need no lock. The table must not
// be read until every worker has finished.
type ResultsTable struct {
	slots []resultSlot
}

type resultSlot struct {
	page    compression.CompressedPage
	written bool
}

// NewResultsTable returns a table with one empty slot per page.
func NewResultsTable(totalPages int) *ResultsTable {
	return &ResultsTable{slots: make([]resultSlot, totalPages)}
}

// Len returns the number of slots in the table.
func (table *ResultsTable) Len() int {
	return len(table.slots)
}

// Store puts a compressed page into its slot. Writing the same slot twice is a
// broken invariant and returns an error wrapping [pzip.ErrQueueInvariant].
func (table *ResultsTable) Store(index int, page compression.CompressedPage) error {
	if index < 0 || index >= len(table.slots) {
		return pzip.ErrQueueInvariant.WithMessage(
			fmt.Sprintf("results slot %d not in [0, %d)", index, len(table.slots)),
		)
	}

	slot := &table.slots[index]
	if slot.written {
		return pzip.ErrQueueInvariant.WithMessage(
			fmt.Sprintf("results slot %d written twice", index),
		)
	}
	slot.page = page
	slot.written = true
	return nil
}

// Pages returns the compressed pages in global order. It fails if any slot was
// never written.
func (table *ResultsTable) Pages() ([]compression.CompressedPage, error) {
	pages := make([]compression.CompressedPage, len(table.slots))
	for i, slot := range table.slots {
		if !slot.written {
			return nil, pzip.ErrQueueInvariant.WithMessage(
				fmt.Sprintf("results slot %d was never written", i),
			)
		}
		pages[i] = slot.page
	}
	return pages, nil
}
