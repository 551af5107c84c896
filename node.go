package robin

import (
	"github.com/google/uuid"
)

// Status is the result of ticking a node.
type Status uint8

const (
	// StatusSuccess means the node completed its work.
	StatusSuccess Status = iota

	// StatusFailure means the node could not complete its work.
	StatusFailure

	// StatusRunning means the node needs more ticks to finish.
	StatusRunning

	// StatusInvalid signals a structurally broken node, such as a decorator
	// with no child. It flows through composites like a failure but stays
	// distinguishable for diagnostics, and is never retried.
	StatusInvalid
)

// String returns the string representation of the Status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusRunning:
		return "running"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the status ends the current run of a node.
func (s Status) IsTerminal() bool {
	return s != StatusRunning
}

// NodeKind identifies the type of a node.
type NodeKind string

const (
	NodeKindSequence  NodeKind = "sequence"
	NodeKindSelector  NodeKind = "selector"
	NodeKindParallel  NodeKind = "parallel"
	NodeKindInverter  NodeKind = "inverter"
	NodeKindRepeater  NodeKind = "repeater"
	NodeKindRetry     NodeKind = "retry"
	NodeKindCondition NodeKind = "condition"
	NodeKindAction    NodeKind = "action"
	NodeKindWait      NodeKind = "wait"
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	return string(k)
}

// Node is the unit of execution in a behavior tree. Tick advances the node
// by dt seconds against the given blackboard and returns the resulting
// status; it may mutate the blackboard but must perform at most one logical
// step per call. Reset returns the node (and its subtree) to its freshly
// constructed state so the next Tick behaves as if nothing ran before.
type Node interface {
	// ID returns the unique identifier for this node.
	ID() string

	// Name returns the human-readable node name.
	Name() string

	// Kind returns the type of this node.
	Kind() NodeKind

	// Tick evaluates the node against the blackboard.
	Tick(bb *Blackboard, dt float64) Status

	// Reset recursively restores initial cursor and accumulator state.
	Reset()
}

// BaseNode provides ID, Name, and Kind handling for node implementations.
// Embed this in concrete node types.
type BaseNode struct {
	id   string
	name string
	kind NodeKind
}

// NewBaseNode creates a BaseNode with a generated unique ID.
func NewBaseNode(name string, kind NodeKind) BaseNode {
	return BaseNode{
		id:   uuid.NewString(),
		name: name,
		kind: kind,
	}
}

// ID returns the node's unique identifier.
func (n BaseNode) ID() string {
	return n.id
}

// Name returns the node's name.
func (n BaseNode) Name() string {
	return n.name
}

// Kind returns the node's type.
func (n BaseNode) Kind() NodeKind {
	return n.kind
}
