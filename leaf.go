package robin

// ConditionFunc is a pure predicate over the blackboard. It must not
// mutate state.
type ConditionFunc func(bb *Blackboard) bool

// ActionFunc performs one step of game logic against the blackboard and
// reports the resulting status. It is the only leaf behavior expected to
// mutate the blackboard or return StatusRunning across ticks.
type ActionFunc func(bb *Blackboard, dt float64) Status

// ConditionNode evaluates a boolean predicate of the blackboard. It never
// returns Running: the predicate either holds (Success) or does not
// (Failure). A condition with no predicate is Invalid.
type ConditionNode struct {
	BaseNode
	fn ConditionFunc
}

// NewCondition creates a condition leaf wrapping the given predicate.
func NewCondition(name string, fn ConditionFunc) *ConditionNode {
	return &ConditionNode{
		BaseNode: NewBaseNode(name, NodeKindCondition),
		fn:       fn,
	}
}

// Tick evaluates the predicate.
func (n *ConditionNode) Tick(bb *Blackboard, dt float64) Status {
	if n.fn == nil {
		return StatusInvalid
	}
	if n.fn(bb) {
		return StatusSuccess
	}
	return StatusFailure
}

// Reset is a no-op: conditions hold no state.
func (n *ConditionNode) Reset() {}

// ActionNode executes a stateful closure against the blackboard.
type ActionNode struct {
	BaseNode
	fn ActionFunc
}

// NewAction creates an action leaf wrapping the given closure.
func NewAction(name string, fn ActionFunc) *ActionNode {
	return &ActionNode{
		BaseNode: NewBaseNode(name, NodeKindAction),
		fn:       fn,
	}
}

// Tick executes the closure.
func (n *ActionNode) Tick(bb *Blackboard, dt float64) Status {
	if n.fn == nil {
		return StatusInvalid
	}
	return n.fn(bb, dt)
}

// Reset is a no-op: any action state lives in the closure's blackboard
// keys, which tree-level reset does not clear.
func (n *ActionNode) Reset() {}

// WaitNode accumulates delta time and reports Running until the configured
// duration has elapsed, then Success. Reset zeroes the accumulator so the
// wait repeats identically.
type WaitNode struct {
	BaseNode
	waitTime float64
	elapsed  float64
}

// NewWait creates a wait leaf for the given duration in seconds.
func NewWait(name string, seconds float64) *WaitNode {
	return &WaitNode{
		BaseNode: NewBaseNode(name, NodeKindWait),
		waitTime: seconds,
	}
}

// Elapsed returns the accumulated time since the last reset.
func (n *WaitNode) Elapsed() float64 {
	return n.elapsed
}

// Tick accumulates dt against the wait duration.
func (n *WaitNode) Tick(bb *Blackboard, dt float64) Status {
	n.elapsed += dt
	if n.elapsed >= n.waitTime {
		return StatusSuccess
	}
	return StatusRunning
}

// Reset zeroes the accumulator.
func (n *WaitNode) Reset() {
	n.elapsed = 0
}

// Ensure interface compliance at compile time.
var (
	_ Node = (*ConditionNode)(nil)
	_ Node = (*ActionNode)(nil)
	_ Node = (*WaitNode)(nil)
)
