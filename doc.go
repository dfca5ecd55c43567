/*
Package ecs provides a data-oriented Entity-Component-System runtime.

Components are stored as dense, float64-backed columns rather than arbitrary
Go structs: every instance of a component type lives in one NumericColumn,
rows aligned by entity, with no padding or pointer-chasing between fields.
Entities sharing an exact set of component types are grouped into an
Archetype so queries can reject or accept a whole group by testing a single
bitmask.

Core Concepts:

  - EntityID: an opaque identifier for one entity within a World.
  - ComponentType: a small token type describing a component's
    dimensionality, used to key its ComponentColumn.
  - Archetype: the set of entities sharing one exact component signature.
  - World: owns every entity, archetype, component column, system, and the
    event bus for one independent simulation.
  - System: per-tick logic run by the World's scheduler in priority order.
  - EventBus: double-buffered publish/subscribe dispatch, sync and async.

Basic usage:

	type Position struct{}
	func (Position) Dimensions() int { return 2 }

	type Velocity struct{}
	func (Velocity) Dimensions() int { return 2 }

	w := ecs.NewWorld()
	id, _ := w.CreateEntity(
		[]ecs.ComponentType{Position{}, Velocity{}},
		map[ecs.ComponentType][]float64{
			Position{}: {0, 0},
			Velocity{}: {1, 0},
		},
	)

	for _, result := range w.Query(Position{}, Velocity{}) {
		pos, _ := result.Value(Position{})
		vel, _ := result.Value(Velocity{})
		pos[0] += vel[0]
		pos[1] += vel[1]
		col, _ := result.Get(Position{})
		_ = col.UpdateValue(result.Entity, pos)
	}
	_ = id
*/
package ecs
