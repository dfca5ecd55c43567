package ecs

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
)

// Archetype groups every entity sharing one exact component-type signature,
// storing each entity's per-type component references in dense,
// index-aligned slices: entities[i]'s data for type T lives at storage[T][i].
// Removal swaps the last entity into the freed slot to keep the slices
// dense, so index i is stable only until the next removal.
type Archetype struct {
	signature mask.Mask
	entities  []EntityID
	storage   map[reflect.Type][]*ComponentColumn
	indexOf   map[EntityID]int
}

func newArchetype(sig mask.Mask) *Archetype {
	return &Archetype{
		signature: sig,
		storage:   make(map[reflect.Type][]*ComponentColumn),
		indexOf:   make(map[EntityID]int),
	}
}

// Signature returns the archetype's component-type bitmask.
func (a *Archetype) Signature() mask.Mask { return a.signature }

// Len returns the number of entities currently in this archetype.
func (a *Archetype) Len() int { return len(a.entities) }

// Entities returns the archetype's entities in storage order. The returned
// slice is the archetype's own backing array and must not be mutated by
// the caller.
func (a *Archetype) Entities() []EntityID { return a.entities }

// AddEntity appends id to the archetype with the given per-type component
// columns. Callers must ensure components' key set matches exactly the
// types whose bits are set in the archetype's signature; AddEntity trusts
// this rather than re-deriving it, mirroring how the archetype never
// recomputes a signature itself.
func (a *Archetype) AddEntity(id EntityID, components map[reflect.Type]*ComponentColumn) {
	index := len(a.entities)
	a.entities = append(a.entities, id)
	a.indexOf[id] = index
	for rt, col := range components {
		a.storage[rt] = append(a.storage[rt], col)
	}
}

// RemoveEntity removes id from the archetype, swapping the last entity into
// its slot. It returns the removed entity's per-type columns and whether id
// was present.
func (a *Archetype) RemoveEntity(id EntityID) (map[reflect.Type]*ComponentColumn, bool) {
	idx, ok := a.indexOf[id]
	if !ok {
		return nil, false
	}
	last := len(a.entities) - 1
	removed := make(map[reflect.Type]*ComponentColumn, len(a.storage))
	for rt, list := range a.storage {
		removed[rt] = list[idx]
	}
	if idx != last {
		movedEntity := a.entities[last]
		a.entities[idx] = movedEntity
		a.indexOf[movedEntity] = idx
		for rt, list := range a.storage {
			list[idx] = list[last]
			a.storage[rt] = list[:last]
		}
	} else {
		for rt, list := range a.storage {
			a.storage[rt] = list[:last]
		}
	}
	a.entities = a.entities[:last]
	delete(a.indexOf, id)
	return removed, true
}
