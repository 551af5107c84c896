package event

import (
	"time"

	"github.com/google/uuid"
)

// TriggerType controls when a trigger's action runs relative to the event
// that matched it.
type TriggerType uint8

const (
	// TriggerImmediate fires the action on every matching event.
	TriggerImmediate TriggerType = iota

	// TriggerDelayed defers the action through the delayed-action queue.
	TriggerDelayed

	// TriggerInterval fires at most once per interval of wall-clock time.
	TriggerInterval

	// TriggerOnce fires on the first matching event, then disables itself.
	TriggerOnce
)

// String returns the string representation of the TriggerType.
func (t TriggerType) String() string {
	switch t {
	case TriggerImmediate:
		return "immediate"
	case TriggerDelayed:
		return "delayed"
	case TriggerInterval:
		return "interval"
	case TriggerOnce:
		return "once"
	default:
		return "unknown"
	}
}

// Trigger pairs a condition with an action and a firing discipline.
// Unlike handlers, triggers match on condition alone, with no name
// pattern.
type Trigger struct {
	id   string
	name string
	typ  TriggerType

	// delay is the deferral for TriggerDelayed and the minimum gap for
	// TriggerInterval.
	delay time.Duration

	condition Condition
	action    Action

	enabled         bool
	activationCount int
	lastFired       time.Time
}

// NewTrigger creates an enabled trigger. The delay parameter is the
// deferral duration for TriggerDelayed and the firing interval for
// TriggerInterval; other types ignore it. A nil condition matches
// everything.
func NewTrigger(name string, typ TriggerType, delay time.Duration, condition Condition, action Action) *Trigger {
	if condition == nil {
		condition = Always{}
	}
	return &Trigger{
		id:        uuid.NewString(),
		name:      name,
		typ:       typ,
		delay:     delay,
		condition: condition,
		action:    action,
		enabled:   true,
	}
}

// ID returns the trigger's unique identifier.
func (t *Trigger) ID() string {
	return t.id
}

// Name returns the trigger's name.
func (t *Trigger) Name() string {
	return t.name
}

// Type returns the firing discipline.
func (t *Trigger) Type() TriggerType {
	return t.typ
}

// Enabled reports whether the trigger may fire.
func (t *Trigger) Enabled() bool {
	return t.enabled
}

// Enable allows the trigger to fire.
func (t *Trigger) Enable() {
	t.enabled = true
}

// Disable prevents the trigger from firing.
func (t *Trigger) Disable() {
	t.enabled = false
}

// ActivationCount returns how many times the trigger has fired. For
// TriggerOnce this saturates at 1.
func (t *Trigger) ActivationCount() int {
	return t.activationCount
}

// fire executes or schedules the trigger's action per its type. Returns
// nil when the trigger declined to fire (disabled, interval gate, or
// already-fired Once).
func (t *Trigger) fire(e *Event, ctx *Context, reg *Registry, now time.Time) error {
	if !t.enabled || t.action == nil {
		return nil
	}
	if !t.condition.Eval(e, reg) {
		return nil
	}

	switch t.typ {
	case TriggerOnce:
		if t.activationCount >= 1 {
			return nil
		}
		t.activationCount = 1
		t.lastFired = now
		t.enabled = false
		return t.action.Execute(e, ctx, reg)

	case TriggerDelayed:
		t.activationCount++
		t.lastFired = now
		ctx.ScheduleAction(t.delay, t.action, e)
		return nil

	case TriggerInterval:
		if !t.lastFired.IsZero() && now.Sub(t.lastFired) < t.delay {
			return nil
		}
		t.activationCount++
		t.lastFired = now
		return t.action.Execute(e, ctx, reg)

	default: // TriggerImmediate
		t.activationCount++
		t.lastFired = now
		return t.action.Execute(e, ctx, reg)
	}
}
