package robin

// Blackboard is per-entity scratch memory read and written by behavior-tree
// nodes during ticking. Each blackboard owns a private namespace plus a
// shared namespace that may be aliased to a system-wide map when blackboard
// sharing is enabled. Lookup checks the private namespace first.
//
// A blackboard lives exactly as long as its owning tree. The tick loop is
// single-threaded, so no locking is required (see the package docs for the
// concurrency model).
type Blackboard struct {
	entityID string
	data     map[string]Value
	shared   map[string]Value
}

// NewBlackboard creates an empty blackboard scoped to the given entity.
func NewBlackboard(entityID string) *Blackboard {
	return &Blackboard{
		entityID: entityID,
		data:     make(map[string]Value),
		shared:   make(map[string]Value),
	}
}

// EntityID returns the entity this blackboard is scoped to.
func (b *Blackboard) EntityID() string {
	return b.entityID
}

// Get retrieves a value, checking the private namespace first and the
// shared namespace second.
func (b *Blackboard) Get(key string) (Value, bool) {
	if v, ok := b.data[key]; ok {
		return v, true
	}
	v, ok := b.shared[key]
	return v, ok
}

// GetOr retrieves a value or returns the fallback when the key is absent
// from both namespaces.
func (b *Blackboard) GetOr(key string, fallback Value) Value {
	if v, ok := b.Get(key); ok {
		return v
	}
	return fallback
}

// Set stores a value in the private namespace.
func (b *Blackboard) Set(key string, value Value) {
	b.data[key] = value
}

// SetShared stores a value in the shared namespace.
func (b *Blackboard) SetShared(key string, value Value) {
	b.shared[key] = value
}

// GetShared retrieves a value from the shared namespace only.
func (b *Blackboard) GetShared(key string) (Value, bool) {
	v, ok := b.shared[key]
	return v, ok
}

// Has reports whether the key exists in either namespace.
func (b *Blackboard) Has(key string) bool {
	_, ok := b.Get(key)
	return ok
}

// Delete removes a key from the private namespace.
func (b *Blackboard) Delete(key string) {
	delete(b.data, key)
}

// Keys returns all keys in the private namespace.
func (b *Blackboard) Keys() []string {
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of entries in the private namespace.
func (b *Blackboard) Len() int {
	return len(b.data)
}

// Clear removes all entries from the private namespace. The shared
// namespace is untouched because other trees may be wired to it.
func (b *Blackboard) Clear() {
	b.data = make(map[string]Value)
}

// useShared aliases the shared namespace to an external map so that
// multiple trees observe the same global state. Called by the owning
// system when blackboard sharing is enabled.
func (b *Blackboard) useShared(shared map[string]Value) {
	if shared != nil {
		b.shared = shared
	}
}
