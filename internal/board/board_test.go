package board

import (
	"errors"
	"testing"

	"devdesk/internal/models"
)

func fptr(f float64) *float64 { return &f }

func sampleBoard() *Board {
	return New([]models.Item{
		{ID: "t1", Title: "todo one", Status: models.StatusTodo, Priority: models.PriorityHigh},
		{ID: "p1", Title: "in progress", Status: models.StatusInProgress, EstimatedHours: fptr(2.5)},
		{ID: "t2", Title: "todo two", Status: models.StatusTodo},
		{ID: "d1", Title: "done", Status: models.StatusDone},
	})
}

func dragging(id string) State {
	return State{Phase: PhaseDragging, ActiveID: id}
}

func TestNew_Partitions(t *testing.T) {
	b := sampleBoard()
	if b.Len() != 4 {
		t.Fatalf("len = %d, want 4", b.Len())
	}
	todo := b.Column(models.StatusTodo)
	if len(todo) != 2 || todo[0].ID != "t1" || todo[1].ID != "t2" {
		t.Errorf("todo column = %+v, want [t1 t2] in input order", todo)
	}
	if got := len(b.Column(models.StatusInProgress)); got != 1 {
		t.Errorf("in progress = %d, want 1", got)
	}
	if got := len(b.Column(models.StatusDone)); got != 1 {
		t.Errorf("done = %d, want 1", got)
	}
}

func TestNew_EmptyColumnsPresent(t *testing.T) {
	cols := New(nil).Columns()
	for _, st := range models.Statuses {
		col, ok := cols[st]
		if !ok || col == nil {
			t.Errorf("column %s missing", st)
		}
	}
}

func TestResolve(t *testing.T) {
	b := sampleBoard()
	tests := []struct {
		name   string
		target DropTarget
		want   models.Status
		ok     bool
	}{
		{"column id", DropTarget{ID: "DONE"}, models.StatusDone, true},
		{"column id beats data", DropTarget{ID: "IN_PROGRESS", Data: &DropData{Status: models.StatusDone}}, models.StatusInProgress, true},
		{"data status", DropTarget{ID: "whatever", Data: &DropData{Status: models.StatusInProgress}}, models.StatusInProgress, true},
		{"invalid data falls through to item", DropTarget{ID: "d1", Data: &DropData{Status: "NOPE"}}, models.StatusDone, true},
		{"item id uses its column", DropTarget{ID: "p1"}, models.StatusInProgress, true},
		{"container fallback", DropTarget{ID: "ghost", Container: models.StatusTodo}, models.StatusTodo, true},
		{"unresolvable", DropTarget{ID: "ghost"}, "", false},
		{"lowercase status is not a column", DropTarget{ID: "done"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := b.Resolve(tt.target)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Resolve = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPickTarget_ColumnWins(t *testing.T) {
	card := Collision{Target: DropTarget{ID: "t1", Data: &DropData{Kind: TargetItem}}, PointerWithin: true, Distance: 1}
	column := Collision{Target: DropTarget{ID: "DONE", Data: &DropData{Kind: TargetColumn}}, PointerWithin: true, Distance: 40}

	got, ok := PickTarget([]Collision{card, column})
	if !ok || got.ID != "DONE" {
		t.Errorf("PickTarget = %q, want column DONE", got.ID)
	}
}

func TestPickTarget_NearestFallback(t *testing.T) {
	cs := []Collision{
		{Target: DropTarget{ID: "far"}, Distance: 30},
		{Target: DropTarget{ID: "near"}, Distance: 5},
		{Target: DropTarget{ID: "TODO"}, Distance: 10},
	}
	got, ok := PickTarget(cs)
	if !ok || got.ID != "near" {
		t.Errorf("PickTarget = %q, want near", got.ID)
	}
	if _, ok := PickTarget(nil); ok {
		t.Error("PickTarget(nil) should report no target")
	}
}

func TestReduce_DragToDoneOpensGate(t *testing.T) {
	b := sampleBoard()
	s, eff := Reduce(b, State{}, DragStarted{ItemID: "t1"})
	if s.Phase != PhaseDragging || s.ActiveID != "t1" || eff.Kind != EffectNone {
		t.Fatalf("after start: %+v %+v", s, eff)
	}

	s, eff = Reduce(b, s, DragEnded{Target: &DropTarget{ID: "DONE"}})
	if eff.Kind != EffectPromptHours {
		t.Fatalf("effect = %v, want prompt_hours", eff.Kind)
	}
	if s.Phase != PhaseAwaitingHours || s.Pending == nil || s.Pending.To != models.StatusDone || s.Pending.From != models.StatusTodo {
		t.Fatalf("state = %+v", s)
	}
	if eff.Prompt == nil || eff.Prompt.Title != "todo one" || eff.Prompt.Prefill != "" {
		t.Errorf("prompt = %+v", eff.Prompt)
	}
}

func TestReduce_DropOnCardUsesCardColumn(t *testing.T) {
	b := sampleBoard()
	s, eff := Reduce(b, dragging("t1"), DragEnded{Target: &DropTarget{ID: "p1"}})
	if eff.Kind != EffectCommit || eff.ItemID != "t1" || eff.Status != models.StatusInProgress {
		t.Fatalf("effect = %+v, want commit t1 -> IN_PROGRESS", eff)
	}
	if s.Phase != PhaseIdle {
		t.Errorf("phase = %v, want idle", s.Phase)
	}
	if eff.ActualHours != nil {
		t.Error("plain move should not carry hours")
	}
}

func TestReduce_NoOps(t *testing.T) {
	b := sampleBoard()
	tests := []struct {
		name   string
		active string
		target *DropTarget
	}{
		{"own column", "t1", &DropTarget{ID: "TODO"}},
		{"card in own column", "t1", &DropTarget{ID: "t2"}},
		{"dead space", "t1", nil},
		{"unresolvable", "t1", &DropTarget{ID: "nowhere"}},
		{"unknown dragged item", "ghost", &DropTarget{ID: "DONE"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, eff := Reduce(b, dragging(tt.active), DragEnded{Target: tt.target})
			if eff.Kind != EffectNone {
				t.Errorf("effect = %v, want none", eff.Kind)
			}
			if s.Phase != PhaseIdle {
				t.Errorf("phase = %v, want idle", s.Phase)
			}
		})
	}
}

func TestReduce_DoneToTodoCommitsDirectly(t *testing.T) {
	b := sampleBoard()
	_, eff := Reduce(b, dragging("d1"), DragEnded{Target: &DropTarget{ID: "TODO"}})
	if eff.Kind != EffectCommit || eff.Status != models.StatusTodo {
		t.Errorf("effect = %+v, want commit to TODO", eff)
	}
}

func TestReduce_GateConfirm(t *testing.T) {
	b := sampleBoard()
	s, eff := Reduce(b, dragging("p1"), DragEnded{Target: &DropTarget{ID: "DONE"}})
	if eff.Prompt == nil || eff.Prompt.Prefill != "2.5" {
		t.Fatalf("prompt should prefill estimate: %+v", eff.Prompt)
	}

	same, eff := Reduce(b, s, HoursConfirmed{Hours: 0})
	if !errors.Is(eff.Err, ErrInvalidHours) || eff.Kind != EffectNone {
		t.Fatalf("zero hours: %+v", eff)
	}
	if same.Phase != PhaseAwaitingHours {
		t.Fatalf("invalid hours should keep gate open, phase = %v", same.Phase)
	}

	s, eff = Reduce(b, same, HoursConfirmed{Hours: 3.5})
	if eff.Kind != EffectCommit || eff.Status != models.StatusDone || eff.ActualHours == nil || *eff.ActualHours != 3.5 {
		t.Fatalf("confirm effect = %+v", eff)
	}
	if s.Phase != PhaseIdle {
		t.Errorf("phase = %v, want idle", s.Phase)
	}
	patch := eff.Patch()
	if patch.Status == nil || *patch.Status != models.StatusDone || !patch.ActualHours.Set || patch.ActualHours.V != 3.5 {
		t.Errorf("patch = %+v", patch)
	}
}

func TestReduce_GateSkipOmitsHours(t *testing.T) {
	b := sampleBoard()
	s, _ := Reduce(b, dragging("t1"), DragEnded{Target: &DropTarget{ID: "DONE"}})
	s, eff := Reduce(b, s, HoursSkipped{})
	if eff.Kind != EffectCommit || eff.Status != models.StatusDone {
		t.Fatalf("skip effect = %+v", eff)
	}
	patch := eff.Patch()
	if patch.ActualHours.Set {
		t.Error("skip must not send actualHours")
	}
	if s.Phase != PhaseIdle {
		t.Errorf("phase = %v, want idle", s.Phase)
	}
}

func TestReduce_GateDismissPolicy(t *testing.T) {
	tests := []struct {
		policy DismissPolicy
		want   EffectKind
	}{
		{DismissSkip, EffectCommit},
		{DismissAbort, EffectNone},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			b := sampleBoard()
			b.Dismiss = tt.policy
			s, _ := Reduce(b, dragging("t1"), DragEnded{Target: &DropTarget{ID: "DONE"}})
			s, eff := Reduce(b, s, GateDismissed{})
			if eff.Kind != tt.want {
				t.Errorf("effect = %v, want %v", eff.Kind, tt.want)
			}
			if eff.ActualHours != nil {
				t.Error("dismiss must not carry hours")
			}
			if s.Phase != PhaseIdle {
				t.Errorf("phase = %v, want idle", s.Phase)
			}
		})
	}
}

func TestReduce_IgnoresOutOfPhaseEvents(t *testing.T) {
	b := sampleBoard()

	s, eff := Reduce(b, State{}, HoursSkipped{})
	if s.Phase != PhaseIdle || eff.Kind != EffectNone {
		t.Errorf("skip while idle: %+v %+v", s, eff)
	}
	s, eff = Reduce(b, State{}, DragEnded{Target: &DropTarget{ID: "DONE"}})
	if s.Phase != PhaseIdle || eff.Kind != EffectNone {
		t.Errorf("drop while idle: %+v %+v", s, eff)
	}

	gate, _ := Reduce(b, dragging("t1"), DragEnded{Target: &DropTarget{ID: "DONE"}})
	s, eff = Reduce(b, gate, DragStarted{ItemID: "t2"})
	if s.Phase != PhaseAwaitingHours || eff.Kind != EffectNone {
		t.Errorf("drag during gate should be ignored: %+v", s)
	}

	s, _ = Reduce(b, dragging("t1"), DragCancelled{})
	if s.Phase != PhaseIdle {
		t.Errorf("cancel: phase = %v", s.Phase)
	}
}

func TestParseHours(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"3.5", 3.5, true},
		{" 2 ", 2, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseHours(tt.raw)
			if (err == nil) != tt.ok || got != tt.want {
				t.Errorf("ParseHours(%q) = %v, %v", tt.raw, got, err)
			}
		})
	}
}

func TestParseDismissPolicy(t *testing.T) {
	if p, err := ParseDismissPolicy(""); err != nil || p != DismissSkip {
		t.Errorf("empty: %v %v", p, err)
	}
	if p, err := ParseDismissPolicy("ABORT"); err != nil || p != DismissAbort {
		t.Errorf("ABORT: %v %v", p, err)
	}
	if _, err := ParseDismissPolicy("later"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestResume(t *testing.T) {
	b := sampleBoard()
	s, prompt, err := Resume(b, "p1")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if s.Phase != PhaseAwaitingHours || s.Pending.From != models.StatusInProgress || prompt.Title != "in progress" {
		t.Errorf("state = %+v prompt = %+v", s, prompt)
	}
	if _, _, err := Resume(b, "d1"); !errors.Is(err, ErrAlreadyDone) {
		t.Errorf("done item: %v", err)
	}
	if _, _, err := Resume(b, "ghost"); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("unknown item: %v", err)
	}
}
