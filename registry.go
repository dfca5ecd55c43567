package ecs

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
)

// ComponentRegistry assigns each component type registered in a world a
// unique bit (lazily, on first use) and holds that type's ComponentColumn.
// Bits are assigned in registration order starting at 0, so two worlds that
// register the same types in the same order get identical signatures -
// nothing here is process-global.
type ComponentRegistry struct {
	bitIndex map[reflect.Type]uint32
	nextBit  uint32
	columns  map[reflect.Type]*ComponentColumn
	colCfg   columnConfig
}

func newComponentRegistry() *ComponentRegistry {
	return newComponentRegistryWithConfig(defaultColumnConfig())
}

func newComponentRegistryWithConfig(cfg columnConfig) *ComponentRegistry {
	return &ComponentRegistry{
		bitIndex: make(map[reflect.Type]uint32),
		columns:  make(map[reflect.Type]*ComponentColumn),
		colCfg:   cfg,
	}
}

func (r *ComponentRegistry) ensureBit(rt reflect.Type) uint32 {
	idx, ok := r.bitIndex[rt]
	if !ok {
		idx = r.nextBit
		r.bitIndex[rt] = idx
		r.nextBit++
	}
	return idx
}

// Register associates compType with instance. If compType was never seen
// before, a bit is assigned and, when instance is nil, a fresh
// ComponentColumn is built from compType.Dimensions() (and Default(), if
// implemented). If compType is already registered, a nil instance is a
// no-op; a non-nil instance distinct from the existing one is rejected with
// ComponentAlreadyRegisteredError, since swapping a live column out from
// under existing rows would corrupt every archetype referencing it.
func (r *ComponentRegistry) Register(compType ComponentType, instance *ComponentColumn) error {
	rt := reflect.TypeOf(compType)
	r.ensureBit(rt)
	if existing, ok := r.columns[rt]; ok {
		if instance != nil && instance != existing {
			return &ComponentAlreadyRegisteredError{Type: rt}
		}
		return nil
	}
	if instance == nil {
		instance = newComponentColumnWithConfig(compType.Dimensions(), defaultValueOf(compType), r.colCfg)
	}
	r.columns[rt] = instance
	return nil
}

// InstanceOf returns compType's ComponentColumn, auto-registering it with a
// default-constructed column on first use.
func (r *ComponentRegistry) InstanceOf(compType ComponentType) *ComponentColumn {
	rt := reflect.TypeOf(compType)
	if col, ok := r.columns[rt]; ok {
		return col
	}
	_ = r.Register(compType, nil)
	return r.columns[rt]
}

// columnOf looks up a column by its already-registered reflect.Type,
// without the ComponentType token, for a type whose column is already
// known to exist.
func (r *ComponentRegistry) columnOf(rt reflect.Type) (*ComponentColumn, bool) {
	col, ok := r.columns[rt]
	return col, ok
}

// BitOf returns the single-bit mask assigned to compType, assigning one if
// this is the type's first use.
func (r *ComponentRegistry) BitOf(compType ComponentType) mask.Mask {
	return r.bitOfType(reflect.TypeOf(compType))
}

func (r *ComponentRegistry) bitOfType(rt reflect.Type) mask.Mask {
	idx := r.ensureBit(rt)
	var m mask.Mask
	m.Mark(idx)
	return m
}

// ComputeSignature OR-combines the bits of every type in types, assigning
// bits to any type not yet seen.
func (r *ComponentRegistry) ComputeSignature(types []ComponentType) mask.Mask {
	var sig mask.Mask
	for _, t := range types {
		idx := r.ensureBit(reflect.TypeOf(t))
		sig.Mark(idx)
	}
	return sig
}

// signatureOfTypeSet OR-combines the bits of a set of already-registered
// reflect.Types, as used to recompute an entity's signature after an
// AddComponent/RemoveComponent mutates its type set.
func (r *ComponentRegistry) signatureOfTypeSet(types map[reflect.Type]*ComponentColumn) mask.Mask {
	var sig mask.Mask
	for rt := range types {
		idx := r.ensureBit(rt)
		sig.Mark(idx)
	}
	return sig
}
