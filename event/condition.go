package event

import (
	robin "github.com/ringo380/robin-sub007"
)

// Condition is a boolean predicate evaluated against an event. Evaluation
// is pure and total: no condition ever errors, and an unresolvable custom
// name evaluates to false.
type Condition interface {
	Eval(e *Event, reg *Registry) bool
}

// Always matches every event.
type Always struct{}

// Eval implements Condition.
func (Always) Eval(*Event, *Registry) bool { return true }

// Never matches no event.
type Never struct{}

// Eval implements Condition.
func (Never) Eval(*Event, *Registry) bool { return false }

// KeyExists matches events whose payload contains the key.
type KeyExists struct {
	Key string
}

// Eval implements Condition.
func (c KeyExists) Eval(e *Event, _ *Registry) bool {
	return e.HasData(c.Key)
}

// KeyEquals matches events whose payload value equals the expected value.
type KeyEquals struct {
	Key   string
	Value robin.Value
}

// Eval implements Condition.
func (c KeyEquals) Eval(e *Event, _ *Registry) bool {
	return e.HasData(c.Key) && e.Data(c.Key).Equal(c.Value)
}

// KeyGreater matches events whose payload value, converted to a float,
// exceeds the threshold.
type KeyGreater struct {
	Key       string
	Threshold float64
}

// Eval implements Condition.
func (c KeyGreater) Eval(e *Event, _ *Registry) bool {
	return e.HasData(c.Key) && e.Data(c.Key).AsFloat() > c.Threshold
}

// KeyLess matches events whose payload value, converted to a float, is
// below the threshold.
type KeyLess struct {
	Key       string
	Threshold float64
}

// Eval implements Condition.
func (c KeyLess) Eval(e *Event, _ *Registry) bool {
	return e.HasData(c.Key) && e.Data(c.Key).AsFloat() < c.Threshold
}

// And matches when both branches match. Both branches are evaluated;
// conditions are cheap enough that short-circuiting buys nothing.
type And struct {
	Left, Right Condition
}

// Eval implements Condition.
func (c And) Eval(e *Event, reg *Registry) bool {
	left := evalOrFalse(c.Left, e, reg)
	right := evalOrFalse(c.Right, e, reg)
	return left && right
}

// Or matches when either branch matches.
type Or struct {
	Left, Right Condition
}

// Eval implements Condition.
func (c Or) Eval(e *Event, reg *Registry) bool {
	left := evalOrFalse(c.Left, e, reg)
	right := evalOrFalse(c.Right, e, reg)
	return left || right
}

// Not inverts its operand.
type Not struct {
	Operand Condition
}

// Eval implements Condition.
func (c Not) Eval(e *Event, reg *Registry) bool {
	return !evalOrFalse(c.Operand, e, reg)
}

// Custom looks up a registered predicate by name. An unregistered name
// evaluates to false rather than erroring.
type Custom struct {
	Name string
}

// Eval implements Condition.
func (c Custom) Eval(e *Event, reg *Registry) bool {
	if reg == nil {
		return false
	}
	fn, ok := reg.Condition(c.Name)
	if !ok {
		return false
	}
	return fn(e)
}

func evalOrFalse(c Condition, e *Event, reg *Registry) bool {
	if c == nil {
		return false
	}
	return c.Eval(e, reg)
}

// Ensure interface compliance at compile time.
var (
	_ Condition = Always{}
	_ Condition = Never{}
	_ Condition = KeyExists{}
	_ Condition = KeyEquals{}
	_ Condition = KeyGreater{}
	_ Condition = KeyLess{}
	_ Condition = And{}
	_ Condition = Or{}
	_ Condition = Not{}
	_ Condition = Custom{}
)
