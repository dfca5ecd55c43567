package ecs

import "errors"

// structuralLockBit is the single mask.Mask256 bit a World marks while
// locked. A dedicated type would be overkill for one bit, but using the
// same mask type the rest of the library uses for bitsets keeps the
// lock/unlock bookkeeping consistent with everything else built on it.
const structuralLockBit = 0

// entityOperation is a deferred structural mutation, applied once the
// world is unlocked. It mirrors RemoveEntity/AddComponent/RemoveComponent
// exactly, but captures the recycle generation observed at
// enqueue time so a stale operation (its entity was removed and the id
// reissued before the operation ran) silently becomes a no-op instead of
// mutating the wrong entity.
type entityOperation interface {
	apply(w *World) error
}

// Lock marks the world as structurally locked. While locked, the
// Enqueue* mutation variants defer their work instead of applying it
// immediately; direct CreateEntity/RemoveEntity/AddComponent/
// RemoveComponent calls are unaffected; a system mid-iteration over a
// Query result that wants to safely queue mutations for after the
// iteration should use Enqueue* together with Lock/Unlock.
func (w *World) Lock() {
	w.locks.Mark(structuralLockBit)
}

// Unlock clears the structural lock and applies every operation enqueued
// while it was held, in enqueue order. An operation that fails does not stop
// the ones after it; every failure is joined into the returned error.
func (w *World) Unlock() error {
	w.locks.Unmark(structuralLockBit)
	if w.locks.IsEmpty() {
		return w.flush()
	}
	return nil
}

// Locked reports whether the world is currently structurally locked.
func (w *World) Locked() bool {
	return !w.locks.IsEmpty()
}

func (w *World) flush() error {
	pending := w.pending
	w.pending = nil
	var errs []error
	for _, op := range pending {
		if err := op.apply(w); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *World) enqueue(op entityOperation) {
	w.pending = append(w.pending, op)
}

// EnqueueRemoveEntity behaves like RemoveEntity, but if the world is
// currently locked the removal is deferred until Unlock instead of applying
// immediately.
func (w *World) EnqueueRemoveEntity(id EntityID) {
	if !w.Locked() {
		w.RemoveEntity(id)
		return
	}
	w.enqueue(&removeEntityOp{id: id, recycleAt: w.entities.recycleCount(id)})
}

// EnqueueAddComponent behaves like AddComponent, deferred until Unlock if
// the world is currently locked.
func (w *World) EnqueueAddComponent(id EntityID, compType ComponentType, initialData []float64) {
	if !w.Locked() {
		_ = w.AddComponent(id, compType, initialData)
		return
	}
	w.enqueue(&addComponentOp{id: id, recycleAt: w.entities.recycleCount(id), compType: compType, initialData: initialData})
}

// EnqueueRemoveComponent behaves like RemoveComponent, deferred until
// Unlock if the world is currently locked.
func (w *World) EnqueueRemoveComponent(id EntityID, compType ComponentType) {
	if !w.Locked() {
		_ = w.RemoveComponent(id, compType)
		return
	}
	w.enqueue(&removeComponentOp{id: id, recycleAt: w.entities.recycleCount(id), compType: compType})
}

type removeEntityOp struct {
	id        EntityID
	recycleAt int
}

func (op *removeEntityOp) apply(w *World) error {
	if w.entities.recycleCount(op.id) != op.recycleAt {
		return nil
	}
	w.RemoveEntity(op.id)
	return nil
}

type addComponentOp struct {
	id          EntityID
	recycleAt   int
	compType    ComponentType
	initialData []float64
}

func (op *addComponentOp) apply(w *World) error {
	if w.entities.recycleCount(op.id) != op.recycleAt {
		return nil
	}
	return w.AddComponent(op.id, op.compType, op.initialData)
}

type removeComponentOp struct {
	id        EntityID
	recycleAt int
	compType  ComponentType
}

func (op *removeComponentOp) apply(w *World) error {
	if w.entities.recycleCount(op.id) != op.recycleAt {
		return nil
	}
	return w.RemoveComponent(op.id, op.compType)
}
