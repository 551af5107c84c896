package daemon

import (
	"testing"
	"time"

	"github.com/ringo380/robin-sub007/event"
)

// newSchedulerSystem returns an initialized event system that records
// every dispatched event into the returned slice.
func newSchedulerSystem(t *testing.T) (*event.System, *[]*event.Event) {
	t.Helper()
	sys := event.NewSystem()
	if err := sys.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	var seen []*event.Event
	sys.RegisterAction("record", func(e *event.Event, _ *event.Context) error {
		seen = append(seen, e)
		return nil
	})
	sys.RegisterHandler(event.NewHandler("recorder", "*", event.Always{}, event.CustomAction{Name: "record"}))
	return sys, &seen
}

func TestScheduler_AdvanceFiresDueSchedules(t *testing.T) {
	sys, seen := newSchedulerSystem(t)
	base := time.Date(2025, 6, 1, 2, 59, 30, 0, time.UTC)

	sched, err := NewScheduler(sys, []ScheduleDeclaration{
		{Name: "respawn", Cron: "0 3 * * *", Event: "world_respawn", Priority: "high", Data: map[string]string{"region": "east"}},
		{Name: "hourly", Cron: "0 * * * *", Event: "hourly_tick"},
	}, base)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	// Nothing due yet.
	if fired := sched.Advance(base.Add(10 * time.Second)); fired != 0 {
		t.Fatalf("Advance() before due = %d, want 0", fired)
	}

	// Both schedules are due at 03:00.
	if fired := sched.Advance(base.Add(time.Minute)); fired != 2 {
		t.Fatalf("Advance() at due time = %d, want 2", fired)
	}
	if err := sys.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(*seen) != 2 {
		t.Fatalf("dispatched %d events, want 2", len(*seen))
	}

	var respawn *event.Event
	for _, e := range *seen {
		if e.Name() == "world_respawn" {
			respawn = e
		}
	}
	if respawn == nil {
		t.Fatal("world_respawn was not dispatched")
	}
	if respawn.Priority() != event.PriorityHigh {
		t.Fatalf("priority = %v, want high", respawn.Priority())
	}
	if respawn.Source() != "scheduler" {
		t.Fatalf("source = %q, want scheduler default", respawn.Source())
	}
	if got := respawn.Data("schedule").AsString(); got != "respawn" {
		t.Fatalf("schedule data = %q, want respawn", got)
	}
	if got := respawn.Data("region").AsString(); got != "east" {
		t.Fatalf("region data = %q, want east", got)
	}
}

func TestScheduler_MissedIntervalsCollapse(t *testing.T) {
	sys, seen := newSchedulerSystem(t)
	base := time.Date(2025, 6, 1, 0, 0, 30, 0, time.UTC)

	sched, err := NewScheduler(sys, []ScheduleDeclaration{
		{Name: "minutely", Cron: "* * * * *", Event: "tick"},
	}, base)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	// Five minutes pass in one poll; only one event fires.
	if fired := sched.Advance(base.Add(5 * time.Minute)); fired != 1 {
		t.Fatalf("Advance() after gap = %d, want 1", fired)
	}
	if err := sys.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(*seen) != 1 {
		t.Fatalf("dispatched %d events, want 1", len(*seen))
	}

	// The next fire time moved past the poll point.
	next := sched.NextRun()
	want := time.Date(2025, 6, 1, 0, 6, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("NextRun() = %v, want %v", next, want)
	}
}

func TestScheduler_NextRunEarliest(t *testing.T) {
	sys, _ := newSchedulerSystem(t)
	base := time.Date(2025, 6, 1, 2, 0, 0, 0, time.UTC)

	sched, err := NewScheduler(sys, []ScheduleDeclaration{
		{Name: "daily", Cron: "0 4 * * *", Event: "daily"},
		{Name: "soon", Cron: "30 2 * * *", Event: "soon"},
	}, base)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	want := time.Date(2025, 6, 1, 2, 30, 0, 0, time.UTC)
	if next := sched.NextRun(); !next.Equal(want) {
		t.Fatalf("NextRun() = %v, want %v", next, want)
	}
}

func TestScheduler_EmptySchedules(t *testing.T) {
	sys, _ := newSchedulerSystem(t)
	sched, err := NewScheduler(sys, nil, time.Now())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	if fired := sched.Advance(time.Now().Add(time.Hour)); fired != 0 {
		t.Fatalf("Advance() = %d, want 0", fired)
	}
	if !sched.NextRun().IsZero() {
		t.Fatalf("NextRun() = %v, want zero", sched.NextRun())
	}
}

func TestScheduler_RejectsBadCron(t *testing.T) {
	sys, _ := newSchedulerSystem(t)
	if _, err := NewScheduler(sys, []ScheduleDeclaration{
		{Name: "bad", Cron: "nope", Event: "x"},
	}, time.Now()); err == nil {
		t.Fatal("NewScheduler() error = nil, want parse error")
	}
}
