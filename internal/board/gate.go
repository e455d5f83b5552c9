package board

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"devdesk/internal/models"
)

// DismissPolicy decides what closing the hours prompt without confirming or
// skipping does.
type DismissPolicy string

const (
	// DismissSkip commits the move to DONE without actual hours.
	DismissSkip DismissPolicy = "skip"
	// DismissAbort drops the move; the item stays in its column.
	DismissAbort DismissPolicy = "abort"
)

// ParseDismissPolicy accepts "skip", "abort" or empty (skip).
func ParseDismissPolicy(raw string) (DismissPolicy, error) {
	switch DismissPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DismissSkip:
		return DismissSkip, nil
	case DismissAbort:
		return DismissAbort, nil
	}
	return "", fmt.Errorf("unknown dismiss policy %q (want skip or abort)", raw)
}

var (
	ErrInvalidHours = errors.New("actual hours must be a positive number")
	ErrAlreadyDone  = errors.New("item is already done")
	ErrUnknownItem  = errors.New("item is not on the board")
)

// Prompt is what the hours prompt shows for a pending completion.
type Prompt struct {
	ItemID         string   `json:"itemId"`
	Title          string   `json:"title"`
	EstimatedHours *float64 `json:"estimatedHours"`
	// Prefill is the initial input value: the estimate, when there is one.
	Prefill string `json:"prefill"`
}

// NeedsHours reports whether moving from one status to another completes the
// item and must go through the hours prompt.
func NeedsHours(from, to models.Status) bool {
	return to == models.StatusDone && (from == models.StatusTodo || from == models.StatusInProgress)
}

// ParseHours validates hours typed into the prompt.
func ParseHours(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !validHours(v) {
		return 0, ErrInvalidHours
	}
	return v, nil
}

func validHours(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func newPrompt(it models.Item) *Prompt {
	p := &Prompt{ItemID: it.ID, Title: it.Title, EstimatedHours: it.EstimatedHours}
	if it.EstimatedHours != nil && *it.EstimatedHours > 0 {
		p.Prefill = strconv.FormatFloat(*it.EstimatedHours, 'f', -1, 64)
	}
	return p
}

// Resume rebuilds the awaiting-hours state for an item about to be completed,
// for callers that do not keep State between requests.
func Resume(b *Board, itemID string) (State, *Prompt, error) {
	it, ok := b.Item(itemID)
	if !ok {
		return State{}, nil, ErrUnknownItem
	}
	if !NeedsHours(it.Status, models.StatusDone) {
		return State{}, nil, ErrAlreadyDone
	}
	return State{
		Phase:   PhaseAwaitingHours,
		Pending: &Transition{ItemID: it.ID, From: it.Status, To: models.StatusDone},
	}, newPrompt(it), nil
}
