package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Project groups items. Every field except Name is optional.
type Project struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Color         *string   `json:"color"`
	RepositoryURL *string   `json:"repositoryUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Item is a task or bug card on the board.
type Item struct {
	ID             string    `json:"id"`
	Type           ItemType  `json:"type"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	Status         Status    `json:"status"`
	Priority       Priority  `json:"priority"`
	ProjectID      *string   `json:"projectId"`
	EstimatedHours *float64  `json:"estimatedHours"`
	ActualHours    *float64  `json:"actualHours"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Project        *Project  `json:"project"`
}

type ItemType string

const (
	ItemTypeTask ItemType = "TASK"
	ItemTypeBug  ItemType = "BUG"
)

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Statuses lists the board columns in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

var (
	ItemTypes  = []ItemType{ItemTypeTask, ItemTypeBug}
	Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}
)

func (t ItemType) IsValid() bool {
	return t == ItemTypeTask || t == ItemTypeBug
}

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParseItemType validates raw against the item type set.
func ParseItemType(raw string) (ItemType, error) {
	t := ItemType(raw)
	if !t.IsValid() {
		return "", enumError("type", raw, ItemTypes)
	}
	return t, nil
}

// ParseStatus validates raw against the status set.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", enumError("status", raw, Statuses)
	}
	return s, nil
}

// ParsePriority validates raw against the priority set.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(raw)
	if !p.IsValid() {
		return "", enumError("priority", raw, Priorities)
	}
	return p, nil
}

func enumError[T ~string](field, raw string, allowed []T) *ValidationError {
	names := make([]string, len(allowed))
	for i, v := range allowed {
		names[i] = string(v)
	}
	return &ValidationError{Field: field, Value: raw, Allowed: names}
}

// ParseHours converts an hours value given as text. Empty input yields nil.
func ParseHours(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, Invalid(field, "%s must be a number, got %q", field, raw)
	}
	return CheckHours(field, v)
}

// CheckHours rejects negative and non-finite hour values.
func CheckHours(field string, v float64) (*float64, error) {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, Invalid(field, "%s must be a non-negative number", field)
	}
	return &v, nil
}

// Nullable is a field of a partial update: Set reports presence, Valid
// distinguishes a value from an explicit null.
type Nullable[T any] struct {
	Set   bool
	Valid bool
	V     T
}

// Some returns a present, non-null field.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Valid: true, V: v}
}

// Null returns a present field cleared to null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// Ptr returns the value as a pointer, nil when null.
func (n Nullable[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.V
	return &v
}

// NewItem carries the fields accepted on creation.
type NewItem struct {
	Type           ItemType
	Title          string
	Description    *string
	Status         Status
	Priority       Priority
	ProjectID      *string
	EstimatedHours *float64
	ActualHours    *float64
}

// ItemPatch lists the fields of a partial item update. Nil pointers and unset
// Nullable fields are left unchanged.
type ItemPatch struct {
	Title          *string
	Description    Nullable[string]
	Status         *Status
	Priority       *Priority
	ProjectID      Nullable[string]
	EstimatedHours Nullable[float64]
	ActualHours    Nullable[float64]
}

// ProjectInput carries project fields for create and update. Nil fields are
// left unchanged on update.
type ProjectInput struct {
	Name          *string
	Description   Nullable[string]
	Color         Nullable[string]
	RepositoryURL Nullable[string]
}

// ItemFilter selects items for listing. Zero values impose no constraint.
type ItemFilter struct {
	Type      ItemType
	Status    Status
	Priority  Priority
	ProjectID string
	Search    string
}

// ItemStats summarises the item table for the insights panel.
type ItemStats struct {
	Total             int `json:"total"`
	Tasks             int `json:"tasks"`
	Bugs              int `json:"bugs"`
	Todo              int `json:"todo"`
	InProgress        int `json:"inProgress"`
	Done              int `json:"done"`
	HighPriority      int `json:"highPriority"`
	BugsInProgress    int `json:"bugsInProgress"`
	HighPriorityTasks int `json:"highPriorityTasks"`
}
