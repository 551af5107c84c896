package event

import (
	"time"

	"github.com/google/uuid"
)

// Handler reacts to events whose names match its pattern. A handler fires
// only when it is enabled, its cooldown has elapsed, and its condition
// matches the event.
type Handler struct {
	id      string
	name    string
	pattern string

	condition Condition
	action    Action

	enabled  bool
	cooldown time.Duration

	executionCount int
	lastExecution  time.Time
}

// NewHandler creates an enabled handler for the given glob pattern. A nil
// condition matches everything.
func NewHandler(name, pattern string, condition Condition, action Action) *Handler {
	if condition == nil {
		condition = Always{}
	}
	return &Handler{
		id:        uuid.NewString(),
		name:      name,
		pattern:   pattern,
		condition: condition,
		action:    action,
		enabled:   true,
	}
}

// WithCooldown sets the minimum interval between executions and returns
// the handler for chaining.
func (h *Handler) WithCooldown(d time.Duration) *Handler {
	h.cooldown = d
	return h
}

// ID returns the handler's unique identifier.
func (h *Handler) ID() string {
	return h.id
}

// Name returns the handler's name.
func (h *Handler) Name() string {
	return h.name
}

// Pattern returns the glob pattern the handler matches against.
func (h *Handler) Pattern() string {
	return h.pattern
}

// Enabled reports whether the handler may fire.
func (h *Handler) Enabled() bool {
	return h.enabled
}

// Enable allows the handler to fire.
func (h *Handler) Enable() {
	h.enabled = true
}

// Disable prevents the handler from firing.
func (h *Handler) Disable() {
	h.enabled = false
}

// ExecutionCount returns how many times the handler has fired.
func (h *Handler) ExecutionCount() int {
	return h.executionCount
}

// LastExecution returns when the handler last fired (zero if never).
func (h *Handler) LastExecution() time.Time {
	return h.lastExecution
}

// Matches reports whether an event name matches the handler's pattern.
func (h *Handler) Matches(eventName string) bool {
	return MatchPattern(h.pattern, eventName)
}

// CanExecute reports whether the handler may fire at the given instant:
// it must be enabled and outside its cooldown window.
func (h *Handler) CanExecute(now time.Time) bool {
	if !h.enabled {
		return false
	}
	if h.cooldown > 0 && !h.lastExecution.IsZero() && now.Sub(h.lastExecution) < h.cooldown {
		return false
	}
	return true
}

// markExecuted records a firing for cooldown and stats bookkeeping.
func (h *Handler) markExecuted(now time.Time) {
	h.executionCount++
	h.lastExecution = now
}
