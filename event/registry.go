package event

import (
	"sync"
)

// ConditionFn is a registered custom predicate.
type ConditionFn func(e *Event) bool

// ActionFn is a registered custom command. Errors propagate as execution
// failures, isolated per handler by the system.
type ActionFn func(e *Event, ctx *Context) error

// Registry maps names to custom condition and action functions so that
// event definitions can reference behavior by name instead of holding
// closures. Registration order is preserved for listing.
type Registry struct {
	mu         sync.RWMutex
	conditions map[string]ConditionFn
	actions    map[string]ActionFn
	condOrder  []string
	actOrder   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conditions: make(map[string]ConditionFn),
		actions:    make(map[string]ActionFn),
	}
}

// RegisterCondition adds a named predicate. An existing name is
// overwritten.
func (r *Registry) RegisterCondition(name string, fn ConditionFn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.conditions[name]; !exists {
		r.condOrder = append(r.condOrder, name)
	}
	r.conditions[name] = fn
}

// RegisterAction adds a named command. An existing name is overwritten.
func (r *Registry) RegisterAction(name string, fn ActionFn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.actions[name]; !exists {
		r.actOrder = append(r.actOrder, name)
	}
	r.actions[name] = fn
}

// Condition returns a named predicate.
func (r *Registry) Condition(name string) (ConditionFn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.conditions[name]
	return fn, ok
}

// Action returns a named command.
func (r *Registry) Action(name string) (ActionFn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.actions[name]
	return fn, ok
}

// ConditionNames lists registered predicate names in registration order.
func (r *Registry) ConditionNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.condOrder))
	copy(out, r.condOrder)
	return out
}

// ActionNames lists registered command names in registration order.
func (r *Registry) ActionNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.actOrder))
	copy(out, r.actOrder)
	return out
}
