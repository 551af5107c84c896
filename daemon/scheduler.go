package daemon

import (
	"time"

	"github.com/robfig/cron/v3"

	robin "github.com/ringo380/robin-sub007"
	"github.com/ringo380/robin-sub007/event"
)

// schedule is one compiled cron entry with its next fire time.
type schedule struct {
	name     string
	cron     cron.Schedule
	event    string
	priority event.Priority
	source   string
	data     map[string]string
	next     time.Time
}

// Scheduler injects cron-driven events into an event system. It is
// polled from the frame loop rather than running its own goroutine, so
// injection stays on the single update thread.
type Scheduler struct {
	system    *event.System
	schedules []*schedule
}

// NewScheduler compiles the schedule declarations. Fire times are
// computed from now in UTC.
func NewScheduler(system *event.System, decls []ScheduleDeclaration, now time.Time) (*Scheduler, error) {
	s := &Scheduler{system: system}
	for _, decl := range decls {
		compiled, err := parseCronExpressionUTC(decl.Cron)
		if err != nil {
			return nil, err
		}
		source := decl.Source
		if source == "" {
			source = "scheduler"
		}
		s.schedules = append(s.schedules, &schedule{
			name:     decl.Name,
			cron:     compiled,
			event:    decl.Event,
			priority: event.ParsePriority(decl.Priority),
			source:   source,
			data:     decl.Data,
			next:     compiled.Next(now.UTC()),
		})
	}
	return s, nil
}

// Advance fires every schedule whose next run time has passed and
// returns the number of events injected. A schedule fires at most once
// per call; missed intervals collapse into a single event.
func (s *Scheduler) Advance(now time.Time) int {
	utc := now.UTC()
	fired := 0
	for _, sched := range s.schedules {
		if sched.next.IsZero() || utc.Before(sched.next) {
			continue
		}
		e := event.New(sched.event, sched.priority, sched.source)
		e.SetData("schedule", robin.String(sched.name))
		for k, v := range sched.data {
			e.SetData(k, robin.String(v))
		}
		s.system.TriggerEvent(e)
		sched.next = sched.cron.Next(utc)
		fired++
	}
	return fired
}

// NextRun returns the earliest upcoming fire time, or the zero time if
// no schedules are configured.
func (s *Scheduler) NextRun() time.Time {
	var earliest time.Time
	for _, sched := range s.schedules {
		if sched.next.IsZero() {
			continue
		}
		if earliest.IsZero() || sched.next.Before(earliest) {
			earliest = sched.next
		}
	}
	return earliest
}
