package robin

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Scheduler errors.
var (
	// ErrUnknownTree is returned when a tree ID has no registered tree.
	ErrUnknownTree = errors.New("unknown tree")

	// ErrUnknownEntity is returned when an entity has no assigned tree.
	ErrUnknownEntity = errors.New("entity has no assigned tree")
)

// TickObserver receives scheduler activity for metrics or debugging.
// Implementations must be cheap; they run inside the tick loop.
type TickObserver interface {
	// TreeTicked is called after every root tick with the wall-clock cost.
	TreeTicked(treeID, treeName string, status Status, elapsed time.Duration)

	// UpdateCompleted is called at the end of every Update pass.
	// deferred counts active trees skipped because the budget ran out.
	UpdateCompleted(ticked, deferred int, elapsed time.Duration)
}

// System owns many behavior trees, maps entities to trees, and ticks every
// active tree once per Update call under a soft wall-clock budget. Trees
// tick in creation order, so scheduling is deterministic; the budget abort
// simply defers the tail of the order to the next frame.
type System struct {
	cfg    Config
	logger *slog.Logger

	trees       map[string]*Tree
	order       []string // tree IDs in creation order
	entityTrees map[string]string

	// shared is the process-wide blackboard namespace handed to every
	// tree when sharing is enabled.
	shared map[string]Value

	observer TickObserver
	now      func() time.Time
}

// NewSystem creates a scheduler with the given configuration.
func NewSystem(cfg Config) *System {
	if cfg.MaxExecutionTime <= 0 {
		cfg.MaxExecutionTime = DefaultConfig().MaxExecutionTime
	}
	return &System{
		cfg:         cfg,
		logger:      slog.Default(),
		trees:       make(map[string]*Tree),
		entityTrees: make(map[string]string),
		shared:      make(map[string]Value),
		now:         time.Now,
	}
}

// SetLogger replaces the default logger.
func (s *System) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetObserver installs a tick observer. Pass nil to remove it.
func (s *System) SetObserver(obs TickObserver) {
	s.observer = obs
}

// Config returns the scheduler configuration.
func (s *System) Config() Config {
	return s.cfg
}

// Initialize prepares the scheduler. It exists for symmetry with Shutdown;
// NewSystem already leaves the scheduler ready.
func (s *System) Initialize() error {
	s.logger.Debug("behavior tree system initialized",
		"budget", s.cfg.MaxExecutionTime,
		"tick_rate_hz", s.cfg.TickRate,
	)
	return nil
}

// CreateTree allocates a new inactive tree with a fresh blackboard and
// returns its ID. The tree is not assigned to any entity yet.
func (s *System) CreateTree(name string) string {
	tree := NewTree(name, s.cfg.TickRate)
	tree.now = s.now
	if s.cfg.EnableBlackboardSharing {
		tree.blackboard.useShared(s.shared)
	}
	s.trees[tree.ID()] = tree
	s.order = append(s.order, tree.ID())
	return tree.ID()
}

// Tree returns a tree by ID.
func (s *System) Tree(treeID string) (*Tree, bool) {
	t, ok := s.trees[treeID]
	return t, ok
}

// TreeForEntity returns the tree assigned to an entity.
func (s *System) TreeForEntity(entityID string) (*Tree, bool) {
	treeID, ok := s.entityTrees[entityID]
	if !ok {
		return nil, false
	}
	t, ok := s.trees[treeID]
	return t, ok
}

// AssignTreeToEntity records the entity mapping, overwriting any prior
// tree for that entity, and starts the tree. There is no multi-tree-per-
// entity support.
func (s *System) AssignTreeToEntity(entityID, treeID string) error {
	tree, ok := s.trees[treeID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTree, treeID)
	}
	s.entityTrees[entityID] = treeID
	tree.Start()
	return nil
}

// Update ticks every active tree once, in creation order, aborting the
// remaining iteration when the cumulative wall-clock time exceeds the
// configured budget. Deferred trees simply do not tick this frame; this is
// a soft real-time budget with no mid-tree preemption.
func (s *System) Update(dt float64) {
	start := s.now()
	ticked := 0
	deferred := 0

	for i, treeID := range s.order {
		tree, ok := s.trees[treeID]
		if !ok || !tree.IsActive() {
			continue
		}

		if elapsed := s.now().Sub(start); elapsed > s.cfg.MaxExecutionTime {
			deferred = s.countActiveFrom(i)
			s.logger.Warn("behavior tree update budget exceeded",
				"elapsed", elapsed,
				"budget", s.cfg.MaxExecutionTime,
				"deferred_trees", deferred,
			)
			break
		}

		tickStart := s.now()
		status := tree.Tick(dt)
		tickElapsed := s.now().Sub(tickStart)
		ticked++

		if s.cfg.EnableDebugging {
			s.logger.Debug("tree ticked",
				"tree", tree.Name(),
				"tree_id", treeID,
				"status", status,
				"elapsed", tickElapsed,
			)
		}
		if s.observer != nil {
			s.observer.TreeTicked(treeID, tree.Name(), status, tickElapsed)
		}
	}

	if s.observer != nil {
		s.observer.UpdateCompleted(ticked, deferred, s.now().Sub(start))
	}
}

func (s *System) countActiveFrom(index int) int {
	count := 0
	for _, treeID := range s.order[index:] {
		if tree, ok := s.trees[treeID]; ok && tree.IsActive() {
			count++
		}
	}
	return count
}

// PauseTree pauses a tree without resetting its progress.
func (s *System) PauseTree(treeID string) error {
	tree, ok := s.trees[treeID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTree, treeID)
	}
	tree.Pause()
	return nil
}

// ResumeTree reactivates a paused tree.
func (s *System) ResumeTree(treeID string) error {
	tree, ok := s.trees[treeID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTree, treeID)
	}
	tree.Resume()
	return nil
}

// RemoveTree stops and destroys a tree, purging all entity mappings that
// point at it. The tree's blackboard dies with it.
func (s *System) RemoveTree(treeID string) error {
	tree, ok := s.trees[treeID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTree, treeID)
	}
	tree.Stop()
	delete(s.trees, treeID)
	for i, id := range s.order {
		if id == treeID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for entityID, id := range s.entityTrees {
		if id == treeID {
			delete(s.entityTrees, entityID)
		}
	}
	return nil
}

// UpdateBlackboard writes a value into the blackboard of the entity's
// assigned tree.
func (s *System) UpdateBlackboard(entityID, key string, value Value) error {
	tree, ok := s.TreeForEntity(entityID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, entityID)
	}
	tree.Blackboard().Set(key, value)
	return nil
}

// BlackboardValue reads a value from the blackboard of the entity's
// assigned tree. A present entity with an absent key returns None with a
// nil error.
func (s *System) BlackboardValue(entityID, key string) (Value, error) {
	tree, ok := s.TreeForEntity(entityID)
	if !ok {
		return None(), fmt.Errorf("%w: %s", ErrUnknownEntity, entityID)
	}
	return tree.Blackboard().GetOr(key, None()), nil
}

// SetSharedValue writes into the system-wide shared namespace.
func (s *System) SetSharedValue(key string, value Value) {
	s.shared[key] = value
}

// SharedValue reads from the system-wide shared namespace.
func (s *System) SharedValue(key string) (Value, bool) {
	v, ok := s.shared[key]
	return v, ok
}

// ActiveTreeCount counts trees currently in the active state. It is
// recomputed on demand rather than maintained as a counter, so it cannot
// drift from the tree states.
func (s *System) ActiveTreeCount() int {
	count := 0
	for _, tree := range s.trees {
		if tree.IsActive() {
			count++
		}
	}
	return count
}

// TreeCount returns the total number of registered trees.
func (s *System) TreeCount() int {
	return len(s.trees)
}

// Shutdown stops every tree and releases all scheduler state.
func (s *System) Shutdown() {
	for _, tree := range s.trees {
		tree.Stop()
	}
	s.trees = make(map[string]*Tree)
	s.order = nil
	s.entityTrees = make(map[string]string)
	s.shared = make(map[string]Value)
}
