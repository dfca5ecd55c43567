package ecs

import "testing"

type positionType struct{}

func (positionType) Dimensions() int { return 2 }

func TestWorldCreateEntityAssignsDistinctIDs(t *testing.T) {
	w := NewWorld()

	a, err := w.CreateEntity([]ComponentType{positionType{}}, nil)
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}
	b, err := w.CreateEntity([]ComponentType{positionType{}}, nil)
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}
	if a == b {
		t.Errorf("CreateEntity() returned the same id twice: %d", a)
	}
}

func TestWorldCreateEntityEmptyTypesIsValid(t *testing.T) {
	w := NewWorld()
	id, err := w.CreateEntity(nil, nil)
	if err != nil {
		t.Fatalf("CreateEntity() with no types error = %v", err)
	}
	if _, ok := w.entityArchetype[id]; !ok {
		t.Error("entity with no components was not placed in any archetype")
	}
}

func TestWorldCreateEntityWithInitialData(t *testing.T) {
	w := NewWorld()
	id, err := w.CreateEntity(
		[]ComponentType{positionType{}},
		map[ComponentType][]float64{positionType{}: {3, 4}},
	)
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}

	results := w.Query(positionType{})
	if len(results) != 1 {
		t.Fatalf("Query() len = %d, want 1", len(results))
	}
	got, err := results[0].Value(positionType{})
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if got[0] != 3 || got[1] != 4 {
		t.Errorf("Value() = %v, want [3 4]", got)
	}
	if results[0].Entity != id {
		t.Errorf("Query() entity = %d, want %d", results[0].Entity, id)
	}
}

func TestWorldRemoveEntityIsIdempotent(t *testing.T) {
	w := NewWorld()
	id, err := w.CreateEntity([]ComponentType{positionType{}}, nil)
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}

	w.RemoveEntity(id)
	if len(w.Query(positionType{})) != 0 {
		t.Error("entity still appears in Query() after RemoveEntity")
	}

	// Removing again, and removing an id that never existed, must not panic
	// or otherwise misbehave.
	w.RemoveEntity(id)
	w.RemoveEntity(EntityID(9999))
}

func TestWorldAddComponentMigratesArchetype(t *testing.T) {
	w := NewWorld()
	id, err := w.CreateEntity([]ComponentType{positionType{}}, nil)
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}

	if err := w.AddComponent(id, velocityType{}, []float64{5}); err != nil {
		t.Fatalf("AddComponent() error = %v", err)
	}

	results := w.Query(positionType{}, velocityType{})
	if len(results) != 1 {
		t.Fatalf("Query() len = %d, want 1 after AddComponent", len(results))
	}
}

func TestWorldAddComponentAlreadyPresent(t *testing.T) {
	w := NewWorld()
	id, err := w.CreateEntity([]ComponentType{positionType{}}, nil)
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}
	err = w.AddComponent(id, positionType{}, nil)
	if err == nil {
		t.Error("AddComponent() on an already-present type should error")
	}
}

func TestWorldRemoveComponentMigratesArchetype(t *testing.T) {
	w := NewWorld()
	id, err := w.CreateEntity([]ComponentType{positionType{}, velocityType{}}, nil)
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}

	if err := w.RemoveComponent(id, velocityType{}); err != nil {
		t.Fatalf("RemoveComponent() error = %v", err)
	}

	if len(w.Query(positionType{}, velocityType{})) != 0 {
		t.Error("entity still matches a query for the removed component")
	}
	if len(w.Query(positionType{})) != 1 {
		t.Error("entity should still match a query for its remaining component")
	}
}

func TestWorldRemoveComponentAbsentIsNoOp(t *testing.T) {
	w := NewWorld()
	id, err := w.CreateEntity([]ComponentType{positionType{}}, nil)
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}
	if err := w.RemoveComponent(id, velocityType{}); err != nil {
		t.Errorf("RemoveComponent() of an absent type error = %v, want nil", err)
	}
}

func TestWorldQueryCacheInvalidatesOnMutation(t *testing.T) {
	w := NewWorld()
	if len(w.Query(positionType{})) != 0 {
		t.Fatal("Query() on empty world should return no results")
	}

	versionBefore := w.Version()
	if _, err := w.CreateEntity([]ComponentType{positionType{}}, nil); err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}
	if w.Version() == versionBefore {
		t.Error("Version() did not change after a structural mutation")
	}

	if len(w.Query(positionType{})) != 1 {
		t.Error("Query() returned a stale cached result after CreateEntity")
	}
}

func TestWorldEntityNotFoundErrors(t *testing.T) {
	w := NewWorld()
	if err := w.AddComponent(EntityID(123), positionType{}, nil); err == nil {
		t.Error("AddComponent() on unknown entity should error")
	}
	if err := w.RemoveComponent(EntityID(123), positionType{}); err == nil {
		t.Error("RemoveComponent() on unknown entity should error")
	}
}

func TestWorldWithInitialCapacityIsPerWorld(t *testing.T) {
	small := NewWorld(WithInitialCapacity(1))
	big := NewWorld(WithInitialCapacity(64))

	if _, err := small.CreateEntity([]ComponentType{positionType{}}, nil); err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}
	if _, err := big.CreateEntity([]ComponentType{positionType{}}, nil); err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}

	smallCol := small.registry.InstanceOf(positionType{})
	bigCol := big.registry.InstanceOf(positionType{})
	if smallCol.Capacity() >= bigCol.Capacity() {
		t.Errorf("Capacity() = %d (small), %d (big), want small < big", smallCol.Capacity(), bigCol.Capacity())
	}
}

func TestWorldWithSentinelIsPerWorld(t *testing.T) {
	w := NewWorld(WithSentinel(0))
	if _, err := w.CreateEntity([]ComponentType{positionType{}}, nil); err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}

	col := w.registry.InstanceOf(positionType{})
	raw, err := col.column.Read(col.Capacity() - 1)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	for _, v := range raw {
		if v != 0 {
			t.Errorf("unused row = %v, want all zeros from WithSentinel(0)", raw)
		}
	}
}

func TestWorldReissuesFreedIDsLIFO(t *testing.T) {
	w := NewWorld()
	a, err := w.CreateEntity([]ComponentType{positionType{}}, nil)
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}
	b, err := w.CreateEntity([]ComponentType{positionType{}}, nil)
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}

	w.RemoveEntity(a)
	w.RemoveEntity(b)

	// Freed ids come back last-in-first-out, ahead of the monotonic counter.
	first, err := w.CreateEntity([]ComponentType{positionType{}}, nil)
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}
	if first != b {
		t.Errorf("first reissued id = %d, want %d (most recently freed)", first, b)
	}
	second, err := w.CreateEntity([]ComponentType{positionType{}}, nil)
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}
	if second != a {
		t.Errorf("second reissued id = %d, want %d", second, a)
	}
}

func TestWorldUpdateDrainsAsyncEvents(t *testing.T) {
	w := NewWorld()
	var delivered []float64
	w.EventBus().Subscribe(damageEvent{}, func(e Event) error {
		delivered = append(delivered, e.(damageEvent).Amount)
		return nil
	})

	w.EventBus().PublishAsync(damageEvent{Amount: 1})
	w.EventBus().PublishAsync(damageEvent{Amount: 2})
	if len(delivered) != 0 {
		t.Fatal("async events delivered before Update()")
	}

	if err := w.Update(1.0, ""); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(delivered) != 2 || delivered[0] != 1 || delivered[1] != 2 {
		t.Fatalf("after Update(), delivered = %v, want [1 2]", delivered)
	}

	w.EventBus().PublishAsync(damageEvent{Amount: 3})
	if err := w.Update(1.0, ""); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(delivered) != 3 || delivered[2] != 3 {
		t.Errorf("after second Update(), delivered = %v, want [1 2 3]", delivered)
	}
}

func TestWorldEntityIDReuseBumpsRecycleCounter(t *testing.T) {
	w := NewWorld()
	id, err := w.CreateEntity(nil, nil)
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}
	ref := w.RefOf(id)

	w.RemoveEntity(id)
	reused, err := w.CreateEntity(nil, nil)
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}

	if reused != id {
		t.Skip("allocator did not reuse the freed id; recycle semantics not exercised")
	}
	if !ref.Stale(w) {
		t.Error("Stale() = false after the id was removed and reissued, want true")
	}
}
