package robin

// InverterNode flips Success and Failure from its child. Running and
// Invalid pass through unchanged, and an inverter with no child is itself
// Invalid.
type InverterNode struct {
	BaseNode
	child Node
}

// NewInverter creates an inverter around the given child.
func NewInverter(name string, child Node) *InverterNode {
	return &InverterNode{
		BaseNode: NewBaseNode(name, NodeKindInverter),
		child:    child,
	}
}

// SetChild attaches the decorated child.
func (n *InverterNode) SetChild(child Node) {
	n.child = child
}

// Child returns the decorated child, which may be nil.
func (n *InverterNode) Child() Node {
	return n.child
}

// Tick evaluates the child and inverts terminal polarity.
func (n *InverterNode) Tick(bb *Blackboard, dt float64) Status {
	if n.child == nil {
		return StatusInvalid
	}
	switch n.child.Tick(bb, dt) {
	case StatusSuccess:
		return StatusFailure
	case StatusFailure:
		return StatusSuccess
	case StatusRunning:
		return StatusRunning
	default:
		return StatusInvalid
	}
}

// Reset resets the child.
func (n *InverterNode) Reset() {
	if n.child != nil {
		n.child.Reset()
	}
}

// RepeaterNode re-runs its child a fixed number of times, or forever when
// the count is zero or negative. Every terminal child result, Success and
// Failure alike, counts as one completed run and resets the child in
// place. The repeater reports Running until the count is exhausted, then
// Success. At most one child run advances per external tick.
type RepeaterNode struct {
	BaseNode
	child        Node
	repeatCount  int
	currentCount int
}

// NewRepeater creates a repeater around the given child. A repeatCount of
// zero or less repeats forever.
func NewRepeater(name string, repeatCount int, child Node) *RepeaterNode {
	return &RepeaterNode{
		BaseNode:    NewBaseNode(name, NodeKindRepeater),
		child:       child,
		repeatCount: repeatCount,
	}
}

// SetChild attaches the decorated child.
func (n *RepeaterNode) SetChild(child Node) {
	n.child = child
}

// Child returns the decorated child, which may be nil.
func (n *RepeaterNode) Child() Node {
	return n.child
}

// CompletedRuns returns how many child runs have finished since the last
// reset.
func (n *RepeaterNode) CompletedRuns() int {
	return n.currentCount
}

// Tick runs the child and counts terminal results.
func (n *RepeaterNode) Tick(bb *Blackboard, dt float64) Status {
	if n.child == nil {
		return StatusInvalid
	}
	st := n.child.Tick(bb, dt)
	if st == StatusRunning {
		return StatusRunning
	}
	if st == StatusInvalid {
		n.Reset()
		return StatusInvalid
	}
	n.currentCount++
	n.child.Reset()
	if n.repeatCount > 0 && n.currentCount >= n.repeatCount {
		n.currentCount = 0
		return StatusSuccess
	}
	return StatusRunning
}

// Reset zeroes the run counter and resets the child.
func (n *RepeaterNode) Reset() {
	n.currentCount = 0
	if n.child != nil {
		n.child.Reset()
	}
}

// RetryNode re-runs its child on Failure only, up to a maximum number of
// attempts. Success short-circuits to Success immediately, and Invalid
// propagates without retrying. Exhausting the attempts yields Failure.
// Unlike RepeaterNode, retry polarity matters: only failures are repeated.
type RetryNode struct {
	BaseNode
	child           Node
	maxAttempts     int
	currentAttempts int
}

// NewRetry creates a retry decorator around the given child. maxAttempts
// values below one are treated as a single attempt.
func NewRetry(name string, maxAttempts int, child Node) *RetryNode {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryNode{
		BaseNode:    NewBaseNode(name, NodeKindRetry),
		child:       child,
		maxAttempts: maxAttempts,
	}
}

// SetChild attaches the decorated child.
func (n *RetryNode) SetChild(child Node) {
	n.child = child
}

// Child returns the decorated child, which may be nil.
func (n *RetryNode) Child() Node {
	return n.child
}

// Attempts returns how many failed attempts have accumulated since the
// last reset.
func (n *RetryNode) Attempts() int {
	return n.currentAttempts
}

// Tick runs the child, retrying failures across subsequent ticks.
func (n *RetryNode) Tick(bb *Blackboard, dt float64) Status {
	if n.child == nil {
		return StatusInvalid
	}
	switch n.child.Tick(bb, dt) {
	case StatusSuccess:
		n.Reset()
		return StatusSuccess
	case StatusRunning:
		return StatusRunning
	case StatusInvalid:
		n.Reset()
		return StatusInvalid
	default:
		n.currentAttempts++
		n.child.Reset()
		if n.currentAttempts >= n.maxAttempts {
			n.Reset()
			return StatusFailure
		}
		return StatusRunning
	}
}

// Reset zeroes the attempt counter and resets the child.
func (n *RetryNode) Reset() {
	n.currentAttempts = 0
	if n.child != nil {
		n.child.Reset()
	}
}

// Ensure interface compliance at compile time.
var (
	_ Node = (*InverterNode)(nil)
	_ Node = (*RepeaterNode)(nil)
	_ Node = (*RetryNode)(nil)
)
