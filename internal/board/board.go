// Package board implements the kanban view: partitioning items into status
// columns, resolving where a dragged card was dropped, and gating completions
// behind an actual-hours prompt.
//
// Everything here is pure. Callers hold the State and feed events through
// Reduce; the returned Effect says which mutation, if any, to issue.
package board

import "devdesk/internal/models"

// Board is an immutable snapshot of the items shown on the kanban view.
type Board struct {
	columns map[models.Status][]models.Item
	byID    map[string]models.Item

	// Dismiss decides what closing the hours prompt without answering does.
	Dismiss DismissPolicy
}

// New partitions items by status, keeping their relative order within each
// column. Items with a status outside the column set are not shown.
func New(items []models.Item) *Board {
	b := &Board{
		columns: make(map[models.Status][]models.Item, len(models.Statuses)),
		byID:    make(map[string]models.Item, len(items)),
		Dismiss: DismissSkip,
	}
	for _, st := range models.Statuses {
		b.columns[st] = []models.Item{}
	}
	for _, it := range items {
		col, ok := b.columns[it.Status]
		if !ok {
			continue
		}
		b.columns[it.Status] = append(col, it)
		b.byID[it.ID] = it
	}
	return b
}

// Column returns the items in the given status column.
func (b *Board) Column(st models.Status) []models.Item {
	return b.columns[st]
}

// Columns returns every column keyed by status.
func (b *Board) Columns() map[models.Status][]models.Item {
	out := make(map[models.Status][]models.Item, len(b.columns))
	for st, items := range b.columns {
		out[st] = items
	}
	return out
}

// Item looks up a card by id.
func (b *Board) Item(id string) (models.Item, bool) {
	it, ok := b.byID[id]
	return it, ok
}

// Len returns the number of cards on the board.
func (b *Board) Len() int {
	return len(b.byID)
}
