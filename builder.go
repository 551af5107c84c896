package robin

import (
	"fmt"
)

// TreeBuilder provides a fluent API for constructing behavior trees.
// Composites open a scope that End() closes; decorators wrap exactly the
// next node added. Errors accumulate and surface from Build.
//
// Example usage:
//
//	tree, err := NewTreeBuilder("guard").
//	    Sequence("patrol").
//	        Condition("has-target", hasTarget).
//	        Retry("approach", 3).
//	            Action("move-to-target", moveToTarget).
//	        Wait("cooldown", 1.5).
//	    End().
//	    Build()
type TreeBuilder struct {
	name     string
	tickRate float64
	maxDepth int
	root     Node
	stack    []Node
	errors   []error
}

// NewTreeBuilder creates a builder for a tree with the given name.
func NewTreeBuilder(name string) *TreeBuilder {
	return &TreeBuilder{name: name}
}

// WithTickRate sets the tree's tick rate in Hz.
func (b *TreeBuilder) WithTickRate(hz float64) *TreeBuilder {
	b.tickRate = hz
	return b
}

// WithMaxDepth bounds tree nesting, validated at Build. Zero disables the
// check.
func (b *TreeBuilder) WithMaxDepth(depth int) *TreeBuilder {
	b.maxDepth = depth
	return b
}

// Sequence opens a sequence composite scope.
func (b *TreeBuilder) Sequence(name string) *TreeBuilder {
	return b.attach(NewSequence(name), true)
}

// Selector opens a selector composite scope.
func (b *TreeBuilder) Selector(name string) *TreeBuilder {
	return b.attach(NewSelector(name), true)
}

// Parallel opens a parallel composite scope with the given policies.
func (b *TreeBuilder) Parallel(name string, successPolicy, failurePolicy ParallelPolicy) *TreeBuilder {
	return b.attach(NewParallel(name, successPolicy, failurePolicy), true)
}

// Inverter wraps the next node added in an inverter decorator.
func (b *TreeBuilder) Inverter(name string) *TreeBuilder {
	return b.attach(NewInverter(name, nil), true)
}

// Repeater wraps the next node added in a repeater decorator. A count of
// zero or less repeats forever.
func (b *TreeBuilder) Repeater(name string, repeatCount int) *TreeBuilder {
	return b.attach(NewRepeater(name, repeatCount, nil), true)
}

// Retry wraps the next node added in a retry decorator.
func (b *TreeBuilder) Retry(name string, maxAttempts int) *TreeBuilder {
	return b.attach(NewRetry(name, maxAttempts, nil), true)
}

// Condition adds a condition leaf.
func (b *TreeBuilder) Condition(name string, fn ConditionFunc) *TreeBuilder {
	return b.attach(NewCondition(name, fn), false)
}

// Action adds an action leaf.
func (b *TreeBuilder) Action(name string, fn ActionFunc) *TreeBuilder {
	return b.attach(NewAction(name, fn), false)
}

// Wait adds a timed wait leaf.
func (b *TreeBuilder) Wait(name string, seconds float64) *TreeBuilder {
	return b.attach(NewWait(name, seconds), false)
}

// Node adds a prebuilt subtree.
func (b *TreeBuilder) Node(node Node) *TreeBuilder {
	if node == nil {
		b.errors = append(b.errors, fmt.Errorf("cannot add nil node"))
		return b
	}
	return b.attach(node, false)
}

// End closes the innermost open composite scope.
func (b *TreeBuilder) End() *TreeBuilder {
	for len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		if dec, ok := decoratorChild(top); ok && dec == nil {
			b.errors = append(b.errors, fmt.Errorf("decorator %q has no child", top.Name()))
			continue
		}
		// Popping a composite closes exactly one scope; any decorators
		// above it were already collapsed when their child arrived.
		b.collapseDecorators()
		return b
	}
	b.errors = append(b.errors, fmt.Errorf("End() without an open composite"))
	return b
}

// Errors returns any errors accumulated during building.
func (b *TreeBuilder) Errors() []error {
	return b.errors
}

// Build validates the structure and returns the constructed tree.
func (b *TreeBuilder) Build() (*Tree, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("tree builder errors: %v", b.errors)
	}
	if len(b.stack) > 0 {
		return nil, fmt.Errorf("unclosed composite %q", b.stack[len(b.stack)-1].Name())
	}
	if b.root == nil {
		return nil, fmt.Errorf("tree %q has no root", b.name)
	}
	if err := validateNode(b.root, 1, b.maxDepth); err != nil {
		return nil, fmt.Errorf("tree %q validation failed: %w", b.name, err)
	}

	tree := NewTree(b.name, b.tickRate)
	tree.SetRoot(b.root)
	return tree, nil
}

// MustBuild is like Build but panics on error. Useful in tests and
// examples.
func (b *TreeBuilder) MustBuild() *Tree {
	tree, err := b.Build()
	if err != nil {
		panic(err)
	}
	return tree
}

func (b *TreeBuilder) attach(node Node, open bool) *TreeBuilder {
	if len(b.stack) == 0 {
		if b.root != nil {
			b.errors = append(b.errors, fmt.Errorf("node %q added after root; trees have exactly one root", node.Name()))
			return b
		}
		b.root = node
	} else {
		top := b.stack[len(b.stack)-1]
		switch parent := top.(type) {
		case *SequenceNode:
			parent.AddChild(node)
		case *SelectorNode:
			parent.AddChild(node)
		case *ParallelNode:
			parent.AddChild(node)
		case *InverterNode:
			parent.SetChild(node)
		case *RepeaterNode:
			parent.SetChild(node)
		case *RetryNode:
			parent.SetChild(node)
		default:
			b.errors = append(b.errors, fmt.Errorf("node %q cannot hold children", top.Name()))
			return b
		}
	}

	if open {
		b.stack = append(b.stack, node)
		return b
	}
	b.collapseDecorators()
	return b
}

// collapseDecorators pops any satisfied decorators off the stack so that
// subsequent nodes attach to the enclosing composite.
func (b *TreeBuilder) collapseDecorators() {
	for len(b.stack) > 0 {
		child, isDecorator := decoratorChild(b.stack[len(b.stack)-1])
		if !isDecorator || child == nil {
			return
		}
		b.stack = b.stack[:len(b.stack)-1]
	}
}

// decoratorChild returns (child, true) when the node is a decorator.
func decoratorChild(n Node) (Node, bool) {
	switch dec := n.(type) {
	case *InverterNode:
		return dec.Child(), true
	case *RepeaterNode:
		return dec.Child(), true
	case *RetryNode:
		return dec.Child(), true
	default:
		return nil, false
	}
}

// childNodes returns the children of any composite or decorator node.
func childNodes(n Node) []Node {
	switch t := n.(type) {
	case *SequenceNode:
		return t.Children()
	case *SelectorNode:
		return t.Children()
	case *ParallelNode:
		return t.Children()
	case *InverterNode, *RepeaterNode, *RetryNode:
		if child, _ := decoratorChild(n); child != nil {
			return []Node{child}
		}
		return nil
	default:
		return nil
	}
}

func validateNode(n Node, depth, maxDepth int) error {
	if maxDepth > 0 && depth > maxDepth {
		return fmt.Errorf("depth %d exceeds maximum %d at node %q", depth, maxDepth, n.Name())
	}
	if child, isDecorator := decoratorChild(n); isDecorator && child == nil {
		return fmt.Errorf("decorator %q has no child", n.Name())
	}
	switch n.Kind() {
	case NodeKindSequence, NodeKindSelector, NodeKindParallel:
		if len(childNodes(n)) == 0 {
			return fmt.Errorf("composite %q has no children", n.Name())
		}
	}
	for _, child := range childNodes(n) {
		if err := validateNode(child, depth+1, maxDepth); err != nil {
			return err
		}
	}
	return nil
}
