package robin

import "testing"

// scriptNode returns a scripted sequence of statuses, repeating the last
// entry once exhausted, and counts ticks and resets.
type scriptNode struct {
	BaseNode
	script []Status
	ticks  int
	resets int
}

func newScriptNode(name string, script ...Status) *scriptNode {
	return &scriptNode{
		BaseNode: NewBaseNode(name, NodeKindAction),
		script:   script,
	}
}

func (n *scriptNode) Tick(bb *Blackboard, dt float64) Status {
	idx := n.ticks
	if idx >= len(n.script) {
		idx = len(n.script) - 1
	}
	n.ticks++
	return n.script[idx]
}

func (n *scriptNode) Reset() {
	n.resets++
}

func success(name string) *scriptNode { return newScriptNode(name, StatusSuccess) }
func failure(name string) *scriptNode { return newScriptNode(name, StatusFailure) }

func TestSequence_AllSucceed(t *testing.T) {
	seq := NewSequence("seq", success("a"), success("b"), success("c"))
	if got := seq.Tick(NewBlackboard("e"), 0.1); got != StatusSuccess {
		t.Fatalf("Tick() = %v, want Success", got)
	}
}

func TestSequence_FailureShortCircuits(t *testing.T) {
	a := success("a")
	b := failure("b")
	c := success("c")
	seq := NewSequence("seq", a, b, c)

	if got := seq.Tick(NewBlackboard("e"), 0.1); got != StatusFailure {
		t.Fatalf("Tick() = %v, want Failure", got)
	}
	if c.ticks != 0 {
		t.Fatalf("child after failure ticked %d times, want 0", c.ticks)
	}
	// Failure resets the subtree for the next pass.
	if a.resets == 0 {
		t.Fatal("failure did not reset earlier children")
	}
}

func TestSequence_RunningPinsCursor(t *testing.T) {
	a := success("a")
	b := newScriptNode("b", StatusRunning, StatusSuccess)
	seq := NewSequence("seq", a, b)
	bb := NewBlackboard("e")

	if got := seq.Tick(bb, 0.1); got != StatusRunning {
		t.Fatalf("first Tick() = %v, want Running", got)
	}
	if got := seq.Tick(bb, 0.1); got != StatusSuccess {
		t.Fatalf("second Tick() = %v, want Success", got)
	}
	// The cursor resumed at b; a must not re-run.
	if a.ticks != 1 {
		t.Fatalf("first child ticked %d times, want 1", a.ticks)
	}
}

func TestSequence_Empty(t *testing.T) {
	seq := NewSequence("seq")
	if got := seq.Tick(NewBlackboard("e"), 0.1); got != StatusInvalid {
		t.Fatalf("empty sequence Tick() = %v, want Invalid", got)
	}
}

func TestSelector_FirstSuccessWins(t *testing.T) {
	a := failure("a")
	b := success("b")
	c := success("c")
	sel := NewSelector("sel", a, b, c)

	if got := sel.Tick(NewBlackboard("e"), 0.1); got != StatusSuccess {
		t.Fatalf("Tick() = %v, want Success", got)
	}
	if c.ticks != 0 {
		t.Fatalf("child after success ticked %d times, want 0", c.ticks)
	}
}

func TestSelector_AllFail(t *testing.T) {
	sel := NewSelector("sel", failure("a"), failure("b"))
	if got := sel.Tick(NewBlackboard("e"), 0.1); got != StatusFailure {
		t.Fatalf("Tick() = %v, want Failure", got)
	}
}

func TestSelector_RunningPinsCursor(t *testing.T) {
	a := failure("a")
	b := newScriptNode("b", StatusRunning, StatusSuccess)
	sel := NewSelector("sel", a, b)
	bb := NewBlackboard("e")

	if got := sel.Tick(bb, 0.1); got != StatusRunning {
		t.Fatalf("first Tick() = %v, want Running", got)
	}
	if got := sel.Tick(bb, 0.1); got != StatusSuccess {
		t.Fatalf("second Tick() = %v, want Success", got)
	}
	if a.ticks != 1 {
		t.Fatalf("first child ticked %d times, want 1", a.ticks)
	}
}

// Inverting every child of a sequence and wrapping the whole thing in an
// inverter behaves like a selector over the original children (and the
// mirror image holds for selectors). The duality only holds for terminal
// statuses.
func TestCompositeDuality_DeMorgan(t *testing.T) {
	cases := [][]Status{
		{StatusSuccess, StatusSuccess},
		{StatusSuccess, StatusFailure},
		{StatusFailure, StatusSuccess},
		{StatusFailure, StatusFailure},
	}

	for _, tc := range cases {
		direct := NewSelector("direct",
			newScriptNode("a", tc[0]), newScriptNode("b", tc[1]))
		dual := NewInverter("not", NewSequence("seq",
			NewInverter("na", newScriptNode("a", tc[0])),
			NewInverter("nb", newScriptNode("b", tc[1]))))

		got := direct.Tick(NewBlackboard("e"), 0.1)
		want := dual.Tick(NewBlackboard("e"), 0.1)
		if got != want {
			t.Fatalf("case %v: selector = %v, inverted sequence = %v", tc, got, want)
		}
	}
}

func TestParallel_RequireOneSuccess(t *testing.T) {
	par := NewParallel("par", RequireOne, RequireAll,
		failure("a"), success("b"), newScriptNode("c", StatusRunning))
	if got := par.Tick(NewBlackboard("e"), 0.1); got != StatusSuccess {
		t.Fatalf("Tick() = %v, want Success", got)
	}
}

func TestParallel_RequireAllSuccess(t *testing.T) {
	b := newScriptNode("b", StatusRunning, StatusSuccess)
	par := NewParallel("par", RequireAll, RequireAll, success("a"), b)
	bb := NewBlackboard("e")

	if got := par.Tick(bb, 0.1); got != StatusRunning {
		t.Fatalf("first Tick() = %v, want Running", got)
	}
	if got := par.Tick(bb, 0.1); got != StatusSuccess {
		t.Fatalf("second Tick() = %v, want Success", got)
	}
}

func TestParallel_SuccessPolicyCheckedFirst(t *testing.T) {
	// One success and one failure with both policies at RequireOne: the
	// success policy wins the tie.
	par := NewParallel("par", RequireOne, RequireOne, success("a"), failure("b"))
	if got := par.Tick(NewBlackboard("e"), 0.1); got != StatusSuccess {
		t.Fatalf("Tick() = %v, want Success (success policy first)", got)
	}
}

func TestParallel_InvalidCountsAsFailure(t *testing.T) {
	par := NewParallel("par", RequireAll, RequireOne,
		success("a"), newScriptNode("b", StatusInvalid))
	if got := par.Tick(NewBlackboard("e"), 0.1); got != StatusFailure {
		t.Fatalf("Tick() = %v, want Failure", got)
	}
}

func TestParallel_TicksAllChildren(t *testing.T) {
	a := newScriptNode("a", StatusRunning)
	b := newScriptNode("b", StatusRunning)
	c := failure("c")
	par := NewParallel("par", RequireAll, RequireAll, a, b, c)

	par.Tick(NewBlackboard("e"), 0.1)
	for _, n := range []*scriptNode{a, b, c} {
		if n.ticks != 1 {
			t.Fatalf("child %s ticked %d times, want 1", n.Name(), n.ticks)
		}
	}
}

func TestParallel_ResetsChildrenOnResolution(t *testing.T) {
	a := success("a")
	par := NewParallel("par", RequireOne, RequireAll, a)
	par.Tick(NewBlackboard("e"), 0.1)
	if a.resets == 0 {
		t.Fatal("terminal resolution did not reset children")
	}
}
