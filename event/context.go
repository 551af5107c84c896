package event

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	robin "github.com/ringo380/robin-sub007"
)

// DelayedAction is an action scheduled to run once at a future instant,
// owned transiently by the context until it executes.
type DelayedAction struct {
	ID        string
	ExecuteAt time.Time
	Action    Action
	Event     *Event
}

// Context is the mutable execution state shared by handlers and actions
// during a system update: named variables, events triggered mid-pass, and
// the delayed-action queue.
type Context struct {
	variables map[string]robin.Value

	// triggered accumulates events produced by actions during a pass;
	// the system drains and re-publishes them after the bucket sweep.
	triggered []*Event

	// delayed holds scheduled actions until their instant passes.
	delayed []DelayedAction

	logger *slog.Logger
	now    func() time.Time
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{
		variables: make(map[string]robin.Value),
		logger:    slog.Default(),
		now:       time.Now,
	}
}

// SetVariable stores a named variable.
func (c *Context) SetVariable(name string, value robin.Value) {
	c.variables[name] = value
}

// Variable retrieves a named variable, or None when absent.
func (c *Context) Variable(name string) robin.Value {
	if v, ok := c.variables[name]; ok {
		return v
	}
	return robin.None()
}

// HasVariable reports whether a variable is set.
func (c *Context) HasVariable(name string) bool {
	_, ok := c.variables[name]
	return ok
}

// Logger returns the context logger used by Log actions.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// EnqueueEvent records an event for re-publication after the current
// pass. Actions use this instead of dispatching immediately so that a
// pass observes a stable queue.
func (c *Context) EnqueueEvent(e *Event) {
	if e != nil {
		c.triggered = append(c.triggered, e)
	}
}

// ScheduleAction queues an action to run once the delay has elapsed.
func (c *Context) ScheduleAction(delay time.Duration, action Action, e *Event) {
	c.delayed = append(c.delayed, DelayedAction{
		ID:        uuid.NewString(),
		ExecuteAt: c.now().Add(delay),
		Action:    action,
		Event:     e,
	})
}

// PendingDelayed returns how many delayed actions are waiting.
func (c *Context) PendingDelayed() int {
	return len(c.delayed)
}

// drainTriggered removes and returns all pending triggered events.
func (c *Context) drainTriggered() []*Event {
	out := c.triggered
	c.triggered = nil
	return out
}

// drainDue removes and returns all delayed actions whose instant has
// passed.
func (c *Context) drainDue(now time.Time) []DelayedAction {
	var due []DelayedAction
	remaining := c.delayed[:0]
	for _, da := range c.delayed {
		if !da.ExecuteAt.After(now) {
			due = append(due, da)
		} else {
			remaining = append(remaining, da)
		}
	}
	c.delayed = remaining
	return due
}
