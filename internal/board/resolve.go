package board

import "devdesk/internal/models"

type TargetKind string

const (
	TargetColumn TargetKind = "column"
	TargetItem   TargetKind = "item"
)

// DropData is the metadata a droppable element carries.
type DropData struct {
	Status models.Status `json:"status,omitempty"`
	Kind   TargetKind    `json:"type,omitempty"`
}

// DropTarget is the element under the pointer when a drag ends. ID is either a
// status (a column) or an item id (a card). Container names the column that
// owns the element, when the renderer knows it.
type DropTarget struct {
	ID        string        `json:"id"`
	Data      *DropData     `json:"data,omitempty"`
	Container models.Status `json:"container,omitempty"`
}

// Resolve maps a drop target to the status of the column it lands in. The
// rules are tried in order and the first match wins:
//
//  1. the target id is itself a status (dropped on a column);
//  2. the target's drop data names a status;
//  3. the target id is a card on the board, so its current column is used;
//  4. the target's owning column is known.
//
// ok is false when none of them apply.
func (b *Board) Resolve(t DropTarget) (st models.Status, ok bool) {
	if s := models.Status(t.ID); s.IsValid() {
		return s, true
	}
	if t.Data != nil && t.Data.Status.IsValid() {
		return t.Data.Status, true
	}
	if it, found := b.Item(t.ID); found {
		return it.Status, true
	}
	if t.Container.IsValid() {
		return t.Container, true
	}
	return "", false
}

// Collision is one droppable element eligible at the end of a drag.
type Collision struct {
	Target DropTarget `json:"target"`
	// PointerWithin is set when the pointer lies inside the element's rect.
	PointerWithin bool `json:"pointerWithin"`
	// Distance from the dragged card to the element, used as the fallback.
	Distance float64 `json:"distance"`
}

// PickTarget chooses the drop target among eligible collisions. A column that
// contains the pointer always beats a card, so drops near a column edge land
// in the column. Otherwise the nearest element wins, earlier entries breaking
// ties.
func PickTarget(collisions []Collision) (DropTarget, bool) {
	for _, c := range collisions {
		if c.PointerWithin && isColumn(c.Target) {
			return c.Target, true
		}
	}
	best := -1
	for i, c := range collisions {
		if best < 0 || c.Distance < collisions[best].Distance {
			best = i
		}
	}
	if best < 0 {
		return DropTarget{}, false
	}
	return collisions[best].Target, true
}

func isColumn(t DropTarget) bool {
	if models.Status(t.ID).IsValid() {
		return true
	}
	return t.Data != nil && t.Data.Kind == TargetColumn
}
