package robin

// SequenceNode ticks its children in order and succeeds only when all of
// them succeed, the classic "AND" composite. Progress persists across
// ticks: a Running child pins the cursor so the next external tick resumes
// at the same child, and several children may complete within a single
// call. Failure or Invalid from any child resets the whole subtree and
// returns that status.
type SequenceNode struct {
	BaseNode
	children []Node
	current  int
}

// NewSequence creates a sequence composite over the given children.
func NewSequence(name string, children ...Node) *SequenceNode {
	return &SequenceNode{
		BaseNode: NewBaseNode(name, NodeKindSequence),
		children: children,
	}
}

// AddChild appends a child to the sequence.
func (n *SequenceNode) AddChild(child Node) {
	n.children = append(n.children, child)
}

// Children returns the child slice.
func (n *SequenceNode) Children() []Node {
	return n.children
}

// Tick advances the sequence from its saved cursor.
func (n *SequenceNode) Tick(bb *Blackboard, dt float64) Status {
	if len(n.children) == 0 {
		return StatusInvalid
	}
	for n.current < len(n.children) {
		switch st := n.children[n.current].Tick(bb, dt); st {
		case StatusSuccess:
			n.current++
		case StatusRunning:
			return StatusRunning
		default:
			// Failure or Invalid: restart from the top next time.
			n.Reset()
			return st
		}
	}
	n.Reset()
	return StatusSuccess
}

// Reset rewinds the cursor and recursively resets all children.
func (n *SequenceNode) Reset() {
	n.current = 0
	for _, c := range n.children {
		c.Reset()
	}
}

// SelectorNode ticks its children in order and succeeds on the first child
// that succeeds, the classic "OR" composite. Failure or Invalid advances
// to the next child; exhausting all children fails. Like SequenceNode, a
// Running child pins the cursor across ticks.
type SelectorNode struct {
	BaseNode
	children []Node
	current  int
}

// NewSelector creates a selector composite over the given children.
func NewSelector(name string, children ...Node) *SelectorNode {
	return &SelectorNode{
		BaseNode: NewBaseNode(name, NodeKindSelector),
		children: children,
	}
}

// AddChild appends a child to the selector.
func (n *SelectorNode) AddChild(child Node) {
	n.children = append(n.children, child)
}

// Children returns the child slice.
func (n *SelectorNode) Children() []Node {
	return n.children
}

// Tick advances the selector from its saved cursor.
func (n *SelectorNode) Tick(bb *Blackboard, dt float64) Status {
	if len(n.children) == 0 {
		return StatusInvalid
	}
	for n.current < len(n.children) {
		switch n.children[n.current].Tick(bb, dt) {
		case StatusSuccess:
			n.Reset()
			return StatusSuccess
		case StatusRunning:
			return StatusRunning
		default:
			n.current++
		}
	}
	n.Reset()
	return StatusFailure
}

// Reset rewinds the cursor and recursively resets all children.
func (n *SelectorNode) Reset() {
	n.current = 0
	for _, c := range n.children {
		c.Reset()
	}
}

// ParallelPolicy controls how many children must reach a terminal status
// for a ParallelNode to resolve.
type ParallelPolicy uint8

const (
	// RequireOne resolves when a single child reaches the status.
	RequireOne ParallelPolicy = iota

	// RequireAll resolves only when every child reaches the status.
	RequireAll
)

// ParallelNode ticks all of its children every call, with no
// short-circuiting, and resolves the tallied results against its success
// and failure policies. The success policy is checked first, then the
// failure policy; otherwise the node is Running while any child runs.
// Invalid children count toward the failure tally.
//
// On terminal resolution the children are reset so the next tick starts a
// fresh pass, matching the sibling composites.
type ParallelNode struct {
	BaseNode
	children      []Node
	successPolicy ParallelPolicy
	failurePolicy ParallelPolicy
}

// NewParallel creates a parallel composite with the given policies.
func NewParallel(name string, successPolicy, failurePolicy ParallelPolicy, children ...Node) *ParallelNode {
	return &ParallelNode{
		BaseNode:      NewBaseNode(name, NodeKindParallel),
		children:      children,
		successPolicy: successPolicy,
		failurePolicy: failurePolicy,
	}
}

// AddChild appends a child to the parallel composite.
func (n *ParallelNode) AddChild(child Node) {
	n.children = append(n.children, child)
}

// Children returns the child slice.
func (n *ParallelNode) Children() []Node {
	return n.children
}

// Tick evaluates every child and resolves against the policies.
func (n *ParallelNode) Tick(bb *Blackboard, dt float64) Status {
	if len(n.children) == 0 {
		return StatusInvalid
	}

	var successes, failures, running int
	for _, c := range n.children {
		switch c.Tick(bb, dt) {
		case StatusSuccess:
			successes++
		case StatusRunning:
			running++
		default:
			failures++
		}
	}

	if n.met(n.successPolicy, successes) {
		n.Reset()
		return StatusSuccess
	}
	if n.met(n.failurePolicy, failures) {
		n.Reset()
		return StatusFailure
	}
	if running > 0 {
		return StatusRunning
	}
	n.Reset()
	return StatusFailure
}

func (n *ParallelNode) met(policy ParallelPolicy, count int) bool {
	if policy == RequireAll {
		return count == len(n.children)
	}
	return count >= 1
}

// Reset recursively resets all children.
func (n *ParallelNode) Reset() {
	for _, c := range n.children {
		c.Reset()
	}
}

// Ensure interface compliance at compile time.
var (
	_ Node = (*SequenceNode)(nil)
	_ Node = (*SelectorNode)(nil)
	_ Node = (*ParallelNode)(nil)
)
