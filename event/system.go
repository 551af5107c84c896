package event

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrUnknownHandler is returned when a handler ID has no registration.
var ErrUnknownHandler = errors.New("unknown handler")

// ErrUnknownTrigger is returned when a trigger ID has no registration.
var ErrUnknownTrigger = errors.New("unknown trigger")

// DefaultUpdateBudget is the soft wall-clock cap for one Update pass.
// Exceeding it mid-bucket defers the remaining events to the next frame.
const DefaultUpdateBudget = 16 * time.Millisecond

// Publisher receives a copy of every triggered event. The bus package
// provides the standard implementation.
type Publisher interface {
	Publish(e *Event)
}

// Observer receives event-system activity for metrics or debugging.
type Observer interface {
	// EventProcessed is called after an event clears dispatch.
	EventProcessed(name string, priority Priority, handlersRun int)

	// HandlerFailed is called when a handler or trigger action errors.
	HandlerFailed(name string)

	// UpdateCompleted is called at the end of every Update pass.
	UpdateCompleted(processed int, elapsed time.Duration, budgetExceeded bool)
}

// System owns the priority-bucketed event queues, the handler and trigger
// registries, the custom condition/action registry, and the delayed-action
// scheduler. It is driven once per frame by Update and, like the tree
// scheduler, is single-threaded.
type System struct {
	// queues holds one FIFO bucket per priority, indexed by Priority.
	queues [PriorityCritical + 1][]*Event

	handlers     map[string]*Handler
	handlerOrder []string

	triggers     map[string]*Trigger
	triggerOrder []string

	registry *Registry
	ctx      *Context

	bus      Publisher
	budget   time.Duration
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

// NewSystem creates an event system with the default update budget.
func NewSystem() *System {
	s := &System{
		handlers: make(map[string]*Handler),
		triggers: make(map[string]*Trigger),
		registry: NewRegistry(),
		ctx:      NewContext(),
		budget:   DefaultUpdateBudget,
		logger:   slog.Default(),
		now:      time.Now,
	}
	s.ctx.now = s.now
	return s
}

// Initialize prepares the system. It exists for symmetry with Shutdown;
// NewSystem already leaves the system ready.
func (s *System) Initialize() error {
	s.logger.Debug("event system initialized", "budget", s.budget)
	return nil
}

// SetLogger replaces the default logger for the system and its context.
func (s *System) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
		s.ctx.logger = logger
	}
}

// SetObserver installs an activity observer. Pass nil to remove it.
func (s *System) SetObserver(obs Observer) {
	s.observer = obs
}

// SetBudget overrides the soft update budget.
func (s *System) SetBudget(d time.Duration) {
	if d > 0 {
		s.budget = d
	}
}

// AttachBus connects a publisher that receives a copy of every triggered
// event, independent of the priority queues.
func (s *System) AttachBus(bus Publisher) {
	s.bus = bus
}

// Context returns the execution context (variables, delayed actions).
func (s *System) Context() *Context {
	return s.ctx
}

// Registry returns the custom condition/action registry.
func (s *System) Registry() *Registry {
	return s.registry
}

// RegisterCondition adds a named custom predicate.
func (s *System) RegisterCondition(name string, fn ConditionFn) {
	s.registry.RegisterCondition(name, fn)
}

// RegisterAction adds a named custom command.
func (s *System) RegisterAction(name string, fn ActionFn) {
	s.registry.RegisterAction(name, fn)
}

// RegisterHandler adds a handler and returns its ID. Handlers run in
// registration order during dispatch.
func (s *System) RegisterHandler(h *Handler) string {
	s.handlers[h.ID()] = h
	s.handlerOrder = append(s.handlerOrder, h.ID())
	return h.ID()
}

// Handler returns a registered handler by ID.
func (s *System) Handler(id string) (*Handler, bool) {
	h, ok := s.handlers[id]
	return h, ok
}

// EnableHandler allows a handler to fire.
func (s *System) EnableHandler(id string) error {
	h, ok := s.handlers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandler, id)
	}
	h.Enable()
	return nil
}

// DisableHandler prevents a handler from firing without removing it.
func (s *System) DisableHandler(id string) error {
	h, ok := s.handlers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandler, id)
	}
	h.Disable()
	return nil
}

// RemoveHandler deletes a handler registration.
func (s *System) RemoveHandler(id string) error {
	if _, ok := s.handlers[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandler, id)
	}
	delete(s.handlers, id)
	for i, hid := range s.handlerOrder {
		if hid == id {
			s.handlerOrder = append(s.handlerOrder[:i], s.handlerOrder[i+1:]...)
			break
		}
	}
	return nil
}

// CreateTrigger adds a trigger and returns its ID. Triggers are evaluated
// in registration order after the handlers of each event.
func (s *System) CreateTrigger(t *Trigger) string {
	s.triggers[t.ID()] = t
	s.triggerOrder = append(s.triggerOrder, t.ID())
	return t.ID()
}

// Trigger returns a registered trigger by ID.
func (s *System) Trigger(id string) (*Trigger, bool) {
	t, ok := s.triggers[id]
	return t, ok
}

// RemoveTrigger deletes a trigger registration.
func (s *System) RemoveTrigger(id string) error {
	if _, ok := s.triggers[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTrigger, id)
	}
	delete(s.triggers, id)
	for i, tid := range s.triggerOrder {
		if tid == id {
			s.triggerOrder = append(s.triggerOrder[:i], s.triggerOrder[i+1:]...)
			break
		}
	}
	return nil
}

// TriggerEvent queues an event into the bucket matching its priority and
// publishes a copy onto the attached bus. Both paths are populated; the
// bus is not an alias of the queues.
func (s *System) TriggerEvent(e *Event) {
	if e == nil {
		return
	}
	s.queues[e.Priority()] = append(s.queues[e.Priority()], e)
	if s.bus != nil {
		s.bus.Publish(e.Clone())
	}
}

// QueueDepth returns how many events wait in a priority bucket.
func (s *System) QueueDepth(p Priority) int {
	return len(s.queues[p])
}

// Update drains the priority buckets strictly Critical before High before
// Normal before Low, FIFO within each bucket, under the soft wall-clock
// budget. For every event it runs all matching, executable handlers and
// then evaluates all enabled triggers. Handler and trigger failures are
// caught, logged, and collected rather than aborting the pass, so one
// misbehaving action cannot starve lower-priority events; the joined
// error is returned once the pass finishes. Afterwards the due delayed
// actions run and any events produced mid-pass are re-published for the
// next frame.
func (s *System) Update() error {
	start := s.now()
	var errs []error
	processed := 0
	budgetExceeded := false

sweep:
	for p := int(PriorityCritical); p >= 0; p-- {
		queue := &s.queues[p]
		for len(*queue) > 0 {
			if elapsed := s.now().Sub(start); elapsed > s.budget {
				s.logger.Warn("event update budget exceeded",
					"elapsed", elapsed,
					"budget", s.budget,
					"remaining", s.pendingCount(),
				)
				budgetExceeded = true
				break sweep
			}

			e := (*queue)[0]
			*queue = (*queue)[1:]
			if e.PropagationStopped() {
				continue
			}

			handlersRun, dispatchErrs := s.dispatch(e)
			errs = append(errs, dispatchErrs...)
			processed++

			if s.observer != nil {
				s.observer.EventProcessed(e.Name(), e.Priority(), handlersRun)
			}
		}
	}

	now := s.now()
	for _, da := range s.ctx.drainDue(now) {
		if err := da.Action.Execute(da.Event, s.ctx, s.registry); err != nil {
			s.logger.Error("delayed action failed", "id", da.ID, "error", err)
			errs = append(errs, fmt.Errorf("delayed action %s: %w", da.ID, err))
		}
	}

	for _, e := range s.ctx.drainTriggered() {
		s.TriggerEvent(e)
	}

	if s.observer != nil {
		s.observer.UpdateCompleted(processed, s.now().Sub(start), budgetExceeded)
	}
	return errors.Join(errs...)
}

// dispatch runs handlers then triggers for a single event.
func (s *System) dispatch(e *Event) (int, []error) {
	now := s.now()
	var errs []error
	ran := 0

	for _, id := range s.handlerOrder {
		if e.PropagationStopped() {
			break
		}
		h := s.handlers[id]
		if !h.Matches(e.Name()) || !h.CanExecute(now) {
			continue
		}
		if !h.condition.Eval(e, s.registry) {
			continue
		}
		h.markExecuted(now)
		ran++
		if h.action == nil {
			continue
		}
		if err := h.action.Execute(e, s.ctx, s.registry); err != nil {
			s.logger.Error("handler action failed",
				"handler", h.Name(),
				"event", e.Name(),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("handler %q: %w", h.Name(), err))
			if s.observer != nil {
				s.observer.HandlerFailed(h.Name())
			}
		}
	}

	for _, id := range s.triggerOrder {
		t := s.triggers[id]
		if err := t.fire(e, s.ctx, s.registry, now); err != nil {
			s.logger.Error("trigger action failed",
				"trigger", t.Name(),
				"event", e.Name(),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("trigger %q: %w", t.Name(), err))
			if s.observer != nil {
				s.observer.HandlerFailed(t.Name())
			}
		}
	}

	return ran, errs
}

func (s *System) pendingCount() int {
	total := 0
	for _, q := range s.queues {
		total += len(q)
	}
	return total
}

// Shutdown drops all queued events, handlers, triggers, and scheduled
// actions.
func (s *System) Shutdown() {
	for i := range s.queues {
		s.queues[i] = nil
	}
	s.handlers = make(map[string]*Handler)
	s.handlerOrder = nil
	s.triggers = make(map[string]*Trigger)
	s.triggerOrder = nil
	s.ctx = NewContext()
	s.ctx.now = s.now
}
