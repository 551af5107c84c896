package event

import (
	"errors"
	"testing"
	"time"

	robin "github.com/ringo380/robin-sub007"
)

func TestSetVariableAction(t *testing.T) {
	ctx := NewContext()
	a := SetVariable{Key: "combat_active", Value: robin.Bool(true)}

	if err := a.Execute(hurtEvent(), ctx, nil); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !ctx.Variable("combat_active").AsBool() {
		t.Fatal("variable not set")
	}
	if !ctx.Variable("missing").IsNone() {
		t.Fatal("absent variable is not None")
	}
}

func TestTriggerEventAction_EnqueuesNotDispatches(t *testing.T) {
	ctx := NewContext()
	a := TriggerEvent{
		Name:     "player_died",
		Priority: PriorityCritical,
		Data:     map[string]robin.Value{"cause": robin.String("poison")},
	}

	if err := a.Execute(hurtEvent(), ctx, nil); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	queued := ctx.drainTriggered()
	if len(queued) != 1 {
		t.Fatalf("triggered events = %d, want 1", len(queued))
	}
	next := queued[0]
	if next.Name() != "player_died" {
		t.Fatalf("name = %q, want player_died", next.Name())
	}
	if next.Priority() != PriorityCritical {
		t.Fatalf("priority = %v, want Critical", next.Priority())
	}
	// The source records the provoking event.
	if next.Source() != "player_hurt" {
		t.Fatalf("source = %q, want player_hurt", next.Source())
	}
	if next.Data("cause").AsString() != "poison" {
		t.Fatalf("cause = %v, want poison", next.Data("cause"))
	}
}

func TestCallFunction_MergesArgsIntoClone(t *testing.T) {
	reg := NewRegistry()
	var seen *Event
	reg.RegisterAction("apply_damage", func(e *Event, ctx *Context) error {
		seen = e
		return nil
	})

	orig := hurtEvent()
	a := CallFunction{
		Name: "apply_damage",
		Args: map[string]robin.Value{"multiplier": robin.Float(2)},
	}
	if err := a.Execute(orig, NewContext(), reg); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if seen.Data("multiplier").AsFloat() != 2 {
		t.Fatal("bound arg not visible to the function")
	}
	if orig.HasData("multiplier") {
		t.Fatal("bound arg leaked into the original event")
	}
}

func TestCallFunction_UnknownName(t *testing.T) {
	a := CallFunction{Name: "ghost"}
	err := a.Execute(hurtEvent(), NewContext(), NewRegistry())
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("error = %v, want ErrUnknownAction", err)
	}
}

func TestSequenceAction_StopsAtFirstError(t *testing.T) {
	reg := NewRegistry()
	calls := 0
	reg.RegisterAction("count", func(e *Event, ctx *Context) error {
		calls++
		return nil
	})

	seq := Sequence{Actions: []Action{
		CustomAction{Name: "count"},
		CustomAction{Name: "ghost"}, // unknown: structural error
		CustomAction{Name: "count"},
	}}
	err := seq.Execute(hurtEvent(), NewContext(), reg)
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("error = %v, want ErrUnknownAction", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (sequence stops at first error)", calls)
	}
}

func TestConditionalAction(t *testing.T) {
	ctx := NewContext()
	cond := Conditional{
		Cond: KeyLess{Key: "health", Threshold: 25},
		Then: SetVariable{Key: "branch", Value: robin.String("then")},
		Else: SetVariable{Key: "branch", Value: robin.String("else")},
	}

	if err := cond.Execute(hurtEvent(), ctx, nil); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := ctx.Variable("branch").AsString(); got != "then" {
		t.Fatalf("branch = %q, want then", got)
	}

	healthy := New("player_hurt", PriorityNormal, "combat")
	healthy.SetData("health", robin.Float(90))
	if err := cond.Execute(healthy, ctx, nil); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := ctx.Variable("branch").AsString(); got != "else" {
		t.Fatalf("branch = %q, want else", got)
	}
}

func TestDelayAction_SchedulesNotRuns(t *testing.T) {
	ctx := NewContext()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx.now = func() time.Time { return base }

	d := Delay{
		Duration: 500 * time.Millisecond,
		Action:   SetVariable{Key: "done", Value: robin.Bool(true)},
	}
	if err := d.Execute(hurtEvent(), ctx, nil); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if ctx.HasVariable("done") {
		t.Fatal("delayed action ran immediately")
	}
	if ctx.PendingDelayed() != 1 {
		t.Fatalf("PendingDelayed() = %d, want 1", ctx.PendingDelayed())
	}

	// Not yet due.
	if due := ctx.drainDue(base.Add(300 * time.Millisecond)); len(due) != 0 {
		t.Fatalf("premature due actions = %d, want 0", len(due))
	}
	// Due exactly at the deadline.
	due := ctx.drainDue(base.Add(500 * time.Millisecond))
	if len(due) != 1 {
		t.Fatalf("due actions = %d, want 1", len(due))
	}
	if ctx.PendingDelayed() != 0 {
		t.Fatalf("PendingDelayed() after drain = %d, want 0", ctx.PendingDelayed())
	}
}
