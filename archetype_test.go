package ecs

import (
	"reflect"
	"testing"

	"github.com/TheBitDrifter/mask"
)

func TestArchetypeAddRemoveEntity(t *testing.T) {
	var sig mask.Mask
	sig.Mark(0)
	arche := newArchetype(sig)

	col := newComponentColumn(1, nil)
	rt := reflect.TypeOf(velocityType{})

	if err := col.Add(1, []float64{1}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	arche.AddEntity(1, map[reflect.Type]*ComponentColumn{rt: col})

	if arche.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", arche.Len())
	}

	removed, ok := arche.RemoveEntity(1)
	if !ok {
		t.Fatal("RemoveEntity() ok = false, want true")
	}
	if removed[rt] != col {
		t.Errorf("RemoveEntity() returned a different column than was added")
	}
	if arche.Len() != 0 {
		t.Errorf("Len() after removal = %d, want 0", arche.Len())
	}
}

func TestArchetypeRemoveEntitySwapsLast(t *testing.T) {
	var sig mask.Mask
	arche := newArchetype(sig)

	for i := 0; i < 3; i++ {
		arche.AddEntity(EntityID(i), map[reflect.Type]*ComponentColumn{})
	}

	if _, ok := arche.RemoveEntity(0); !ok {
		t.Fatal("RemoveEntity(0) ok = false")
	}

	entities := arche.Entities()
	if len(entities) != 2 {
		t.Fatalf("Entities() len = %d, want 2", len(entities))
	}
	// Entity 2 (the last one added) should have been swapped into slot 0.
	if entities[0] != 2 {
		t.Errorf("Entities()[0] = %d, want 2 (swapped from the last slot)", entities[0])
	}
	if arche.indexOf[2] != 0 {
		t.Errorf("indexOf[2] = %d, want 0", arche.indexOf[2])
	}
}

func TestArchetypeRemoveEntityNotPresent(t *testing.T) {
	arche := newArchetype(mask.Mask{})
	_, ok := arche.RemoveEntity(42)
	if ok {
		t.Error("RemoveEntity() on absent entity ok = true, want false")
	}
}
