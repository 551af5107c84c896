package robin

import "testing"

func TestBlackboard_SetGet(t *testing.T) {
	bb := NewBlackboard("npc-1")

	if bb.EntityID() != "npc-1" {
		t.Fatalf("EntityID() = %q, want npc-1", bb.EntityID())
	}

	bb.Set("health", Float(75))
	got, ok := bb.Get("health")
	if !ok {
		t.Fatal("Get(health) ok = false, want true")
	}
	if got.AsFloat() != 75 {
		t.Fatalf("health = %v, want 75", got.AsFloat())
	}

	if _, ok := bb.Get("missing"); ok {
		t.Fatal("Get(missing) ok = true, want false")
	}
	if got := bb.GetOr("missing", Int(9)); got.AsInt() != 9 {
		t.Fatalf("GetOr fallback = %v, want 9", got)
	}
}

func TestBlackboard_PrivateShadowsShared(t *testing.T) {
	shared := map[string]Value{"alert": Bool(true)}
	bb := NewBlackboard("e1")
	bb.useShared(shared)

	// Shared is visible through plain Get when no private key exists.
	got, ok := bb.Get("alert")
	if !ok || !got.AsBool() {
		t.Fatalf("Get(alert) = (%v, %v), want (true, true)", got, ok)
	}

	// A private write shadows the shared entry without mutating it.
	bb.Set("alert", Bool(false))
	if got, _ := bb.Get("alert"); got.AsBool() {
		t.Fatal("private write did not shadow shared entry")
	}
	if !shared["alert"].AsBool() {
		t.Fatal("private write leaked into shared namespace")
	}

	// GetShared bypasses the private layer.
	if got, _ := bb.GetShared("alert"); !got.AsBool() {
		t.Fatal("GetShared did not read the shared namespace")
	}
}

func TestBlackboard_SharedWritesVisibleAcrossBlackboards(t *testing.T) {
	shared := make(map[string]Value)
	a := NewBlackboard("a")
	b := NewBlackboard("b")
	a.useShared(shared)
	b.useShared(shared)

	a.SetShared("threat", Int(3))
	got, ok := b.GetShared("threat")
	if !ok || got.AsInt() != 3 {
		t.Fatalf("b.GetShared(threat) = (%v, %v), want (3, true)", got, ok)
	}
}

func TestBlackboard_DeleteAndClear(t *testing.T) {
	bb := NewBlackboard("e1")
	bb.Set("a", Int(1))
	bb.Set("b", Int(2))

	bb.Delete("a")
	if bb.Has("a") {
		t.Fatal("Has(a) = true after Delete")
	}
	if bb.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", bb.Len())
	}

	bb.Clear()
	if bb.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", bb.Len())
	}
}
