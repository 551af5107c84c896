package event

import (
	"errors"
	"fmt"
	"time"

	robin "github.com/ringo380/robin-sub007"
)

// ErrUnknownAction is returned when a Custom action references a name the
// registry does not hold. Unlike conditions, which degrade to false, an
// unresolvable action is a structural error.
var ErrUnknownAction = errors.New("unknown custom action")

// Action is a command executed in response to an event. Execution errors
// are structural (for example an unknown custom name); business-level
// failure is not modeled; an action either runs or structurally fails.
type Action interface {
	Execute(e *Event, ctx *Context, reg *Registry) error
}

// Log writes a message through the context logger.
type Log struct {
	Message string
}

// Execute implements Action.
func (a Log) Execute(e *Event, ctx *Context, _ *Registry) error {
	ctx.Logger().Info(a.Message, "event", e.Name(), "source", e.Source())
	return nil
}

// SetVariable stores a value in the context variables.
type SetVariable struct {
	Key   string
	Value robin.Value
}

// Execute implements Action.
func (a SetVariable) Execute(_ *Event, ctx *Context, _ *Registry) error {
	ctx.SetVariable(a.Key, a.Value)
	return nil
}

// TriggerEvent enqueues a follow-up event. It does not dispatch
// immediately; the system re-publishes enqueued events after the current
// pass.
type TriggerEvent struct {
	Name     string
	Priority Priority
	Data     map[string]robin.Value
}

// Execute implements Action.
func (a TriggerEvent) Execute(e *Event, ctx *Context, _ *Registry) error {
	next := New(a.Name, a.Priority, e.Name())
	for k, v := range a.Data {
		next.SetData(k, v)
	}
	ctx.EnqueueEvent(next)
	return nil
}

// CallFunction invokes a registered custom action with bound arguments
// merged into the event payload.
type CallFunction struct {
	Name string
	Args map[string]robin.Value
}

// Execute implements Action.
func (a CallFunction) Execute(e *Event, ctx *Context, reg *Registry) error {
	if reg == nil {
		return fmt.Errorf("%w: %s", ErrUnknownAction, a.Name)
	}
	fn, ok := reg.Action(a.Name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, a.Name)
	}
	call := e
	if len(a.Args) > 0 {
		call = e.Clone()
		for k, v := range a.Args {
			call.SetData(k, v)
		}
	}
	return fn(call, ctx)
}

// Sequence runs actions in order, stopping at the first error.
type Sequence struct {
	Actions []Action
}

// Execute implements Action.
func (a Sequence) Execute(e *Event, ctx *Context, reg *Registry) error {
	for _, act := range a.Actions {
		if act == nil {
			continue
		}
		if err := act.Execute(e, ctx, reg); err != nil {
			return err
		}
	}
	return nil
}

// Conditional runs Then when the condition matches, otherwise Else when
// present.
type Conditional struct {
	Cond Condition
	Then Action
	Else Action // optional
}

// Execute implements Action.
func (a Conditional) Execute(e *Event, ctx *Context, reg *Registry) error {
	if evalOrFalse(a.Cond, e, reg) {
		if a.Then != nil {
			return a.Then.Execute(e, ctx, reg)
		}
		return nil
	}
	if a.Else != nil {
		return a.Else.Execute(e, ctx, reg)
	}
	return nil
}

// Delay schedules the wrapped action to run after a duration. It never
// blocks; the system drains due actions at the end of each update.
type Delay struct {
	Duration time.Duration
	Action   Action
}

// Execute implements Action.
func (a Delay) Execute(e *Event, ctx *Context, _ *Registry) error {
	if a.Action == nil {
		return nil
	}
	ctx.ScheduleAction(a.Duration, a.Action, e)
	return nil
}

// CustomAction invokes a registered custom action by name with the event
// unchanged.
type CustomAction struct {
	Name string
}

// Execute implements Action.
func (a CustomAction) Execute(e *Event, ctx *Context, reg *Registry) error {
	if reg == nil {
		return fmt.Errorf("%w: %s", ErrUnknownAction, a.Name)
	}
	fn, ok := reg.Action(a.Name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, a.Name)
	}
	return fn(e, ctx)
}

// Ensure interface compliance at compile time.
var (
	_ Action = Log{}
	_ Action = SetVariable{}
	_ Action = TriggerEvent{}
	_ Action = CallFunction{}
	_ Action = Sequence{}
	_ Action = Conditional{}
	_ Action = Delay{}
	_ Action = CustomAction{}
)
