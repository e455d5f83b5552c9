package board

import "devdesk/internal/models"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseAwaitingHours
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseAwaitingHours:
		return "awaiting_hours"
	}
	return "unknown"
}

// Transition is a status change waiting on the hours prompt.
type Transition struct {
	ItemID string
	From   models.Status
	To     models.Status
}

// State is the drag-and-drop state owned by the caller. The zero value is idle.
type State struct {
	Phase    Phase
	ActiveID string
	Pending  *Transition
}

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

// DragStarted begins moving a card.
type DragStarted struct{ ItemID string }

// DragEnded releases the card. Target is nil when it was dropped over nothing.
type DragEnded struct{ Target *DropTarget }

// DragCancelled aborts the drag, e.g. on Escape.
type DragCancelled struct{}

// HoursConfirmed answers the hours prompt.
type HoursConfirmed struct{ Hours float64 }

// HoursSkipped completes the item without recording hours.
type HoursSkipped struct{}

// GateDismissed closes the hours prompt without an answer.
type GateDismissed struct{}

func (DragStarted) isEvent()    {}
func (DragEnded) isEvent()      {}
func (DragCancelled) isEvent()  {}
func (HoursConfirmed) isEvent() {}
func (HoursSkipped) isEvent()   {}
func (GateDismissed) isEvent()  {}

type EffectKind int

const (
	// EffectNone issues nothing.
	EffectNone EffectKind = iota
	// EffectCommit issues a status update, with actual hours when set.
	EffectCommit
	// EffectPromptHours opens the hours prompt.
	EffectPromptHours
)

func (k EffectKind) String() string {
	switch k {
	case EffectCommit:
		return "commit"
	case EffectPromptHours:
		return "prompt_hours"
	}
	return "none"
}

// Effect is the side effect the caller must perform after a transition.
type Effect struct {
	Kind        EffectKind
	ItemID      string
	Status      models.Status
	ActualHours *float64
	Prompt      *Prompt
	// Err explains a rejected event that left the state unchanged.
	Err error
}

// Patch returns the item update for a commit effect. Actual hours are only
// part of the patch when the prompt was answered.
func (e Effect) Patch() models.ItemPatch {
	st := e.Status
	p := models.ItemPatch{Status: &st}
	if e.ActualHours != nil {
		p.ActualHours = models.Some(*e.ActualHours)
	}
	return p
}

var noEffect = Effect{Kind: EffectNone}

// Reduce applies one event. It never fails: drops that cannot be resolved and
// events that do not fit the current phase fall back to a no-op.
func Reduce(b *Board, s State, ev Event) (State, Effect) {
	switch e := ev.(type) {
	case DragStarted:
		if s.Phase == PhaseAwaitingHours {
			return s, noEffect
		}
		return State{Phase: PhaseDragging, ActiveID: e.ItemID}, noEffect

	case DragCancelled:
		if s.Phase != PhaseDragging {
			return s, noEffect
		}
		return State{}, noEffect

	case DragEnded:
		if s.Phase != PhaseDragging {
			return s, noEffect
		}
		return drop(b, s.ActiveID, e.Target)

	case HoursConfirmed:
		if s.Phase != PhaseAwaitingHours || s.Pending == nil {
			return s, noEffect
		}
		if !validHours(e.Hours) {
			return s, Effect{Kind: EffectNone, ItemID: s.Pending.ItemID, Err: ErrInvalidHours}
		}
		h := e.Hours
		return State{}, commit(s.Pending.ItemID, s.Pending.To, &h)

	case HoursSkipped:
		if s.Phase != PhaseAwaitingHours || s.Pending == nil {
			return s, noEffect
		}
		return State{}, commit(s.Pending.ItemID, s.Pending.To, nil)

	case GateDismissed:
		if s.Phase != PhaseAwaitingHours || s.Pending == nil {
			return s, noEffect
		}
		if b.Dismiss == DismissAbort {
			return State{}, noEffect
		}
		return State{}, commit(s.Pending.ItemID, s.Pending.To, nil)
	}
	return s, noEffect
}

func drop(b *Board, activeID string, target *DropTarget) (State, Effect) {
	if target == nil {
		return State{}, noEffect
	}
	it, ok := b.Item(activeID)
	if !ok {
		return State{}, noEffect
	}
	to, ok := b.Resolve(*target)
	if !ok || to == it.Status {
		return State{}, noEffect
	}
	if NeedsHours(it.Status, to) {
		pending := &Transition{ItemID: it.ID, From: it.Status, To: to}
		return State{Phase: PhaseAwaitingHours, Pending: pending},
			Effect{Kind: EffectPromptHours, ItemID: it.ID, Status: to, Prompt: newPrompt(it)}
	}
	return State{}, commit(it.ID, to, nil)
}

func commit(id string, to models.Status, hours *float64) Effect {
	return Effect{Kind: EffectCommit, ItemID: id, Status: to, ActualHours: hours}
}
