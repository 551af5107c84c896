package robin

import (
	"time"

	"github.com/google/uuid"
)

// TreeState is the lifecycle state of a behavior tree.
type TreeState uint8

const (
	// TreeStopped means the tree is inactive with all cursors reset.
	TreeStopped TreeState = iota

	// TreeActive means the tree ticks normally.
	TreeActive

	// TreePaused means the tree is inactive but keeps its cursors, so
	// Resume continues where the tree left off.
	TreePaused
)

// String returns the string representation of the TreeState.
func (s TreeState) String() string {
	switch s {
	case TreeStopped:
		return "stopped"
	case TreeActive:
		return "active"
	case TreePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Tree owns one root node and one blackboard and drives them through the
// lifecycle Stopped -> Active -> Paused -> Active -> Stopped. A tree with a
// tick rate below the caller's frame rate throttles itself: Tick returns
// Running without touching the root until its own interval has elapsed,
// which lets expensive trees run at a fraction of the frame rate.
type Tree struct {
	id         string
	name       string
	root       Node
	blackboard *Blackboard

	state        TreeState
	lastTick     time.Time
	tickInterval time.Duration

	// now is injectable for tests, mirroring the scheduler.
	now func() time.Time
}

// NewTree creates a stopped tree with a fresh entity-scoped blackboard.
// tickRateHz bounds how often the root ticks; zero or negative disables
// throttling.
func NewTree(name string, tickRateHz float64) *Tree {
	id := uuid.NewString()
	t := &Tree{
		id:         id,
		name:       name,
		blackboard: NewBlackboard(id),
		now:        time.Now,
	}
	if tickRateHz > 0 {
		t.tickInterval = time.Duration(float64(time.Second) / tickRateHz)
	}
	return t
}

// ID returns the tree's unique identifier.
func (t *Tree) ID() string {
	return t.id
}

// Name returns the tree's name.
func (t *Tree) Name() string {
	return t.name
}

// Root returns the root node, which may be nil.
func (t *Tree) Root() Node {
	return t.root
}

// SetRoot attaches the root node. The tree keeps exclusive ownership of
// the subtree.
func (t *Tree) SetRoot(root Node) {
	t.root = root
}

// Blackboard returns the tree's blackboard.
func (t *Tree) Blackboard() *Blackboard {
	return t.blackboard
}

// State returns the current lifecycle state.
func (t *Tree) State() TreeState {
	return t.state
}

// IsActive reports whether the tree will tick.
func (t *Tree) IsActive() bool {
	return t.state == TreeActive
}

// TickInterval returns the throttle interval derived from the configured
// tick rate (zero when unthrottled).
func (t *Tree) TickInterval() time.Duration {
	return t.tickInterval
}

// Start resets the tree and activates it.
func (t *Tree) Start() {
	t.Reset()
	t.state = TreeActive
	t.lastTick = time.Time{}
}

// Stop deactivates the tree and resets all cursor state.
func (t *Tree) Stop() {
	t.state = TreeStopped
	t.Reset()
}

// Pause deactivates the tree without resetting, preserving progress.
func (t *Tree) Pause() {
	if t.state == TreeActive {
		t.state = TreePaused
	}
}

// Resume reactivates a paused tree without resetting.
func (t *Tree) Resume() {
	if t.state == TreePaused {
		t.state = TreeActive
	}
}

// Reset recursively resets the root subtree.
func (t *Tree) Reset() {
	if t.root != nil {
		t.root.Reset()
	}
}

// Tick advances the tree by dt seconds. An inactive or rootless tree is
// Invalid. A throttled tree that has ticked too recently returns Running
// without evaluating the root: it is waiting for its own turn, which is
// distinct from a child reporting Running.
func (t *Tree) Tick(dt float64) Status {
	if t.state != TreeActive || t.root == nil {
		return StatusInvalid
	}
	now := t.now()
	if t.tickInterval > 0 && !t.lastTick.IsZero() && now.Sub(t.lastTick) < t.tickInterval {
		return StatusRunning
	}
	t.lastTick = now
	return t.root.Tick(t.blackboard, dt)
}
