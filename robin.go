// Package robin is a behavior-tree scheduling core for driving many
// independent AI-controlled entities per frame under a tick budget.
//
// The package provides the node type hierarchy (composites, decorators,
// leaves), the per-entity Blackboard data substrate, the Tree lifecycle,
// and the System scheduler that ticks every active tree once per update
// call under a soft wall-clock budget. The companion event subpackage
// provides the priority-bucketed event bus nodes and external systems use
// to communicate.
//
// The core is single-threaded, synchronous, and cooperative: trees and
// events yield by returning Running or queuing work rather than blocking,
// and the embedding game loop is expected to call System.Update and
// event.System.Update once per frame from one goroutine. Nothing in the
// core locks; if trees are ever ticked from multiple goroutines, the
// shared blackboard namespace and the event bus need external
// synchronization.
package robin
