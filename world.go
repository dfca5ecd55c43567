package ecs

import (
	"reflect"
	"sort"

	"github.com/TheBitDrifter/mask"
	"github.com/rs/zerolog"
)

// World owns every entity, component column, archetype, system, and the
// event bus for one independent simulation. Nothing here is a package-level
// global: two Worlds constructed in the same process share no state, so bit
// assignments, entity ids, and caches in one never leak into the other.
type World struct {
	registry *ComponentRegistry

	archetypes     map[mask.Mask]*Archetype
	archetypeOrder []mask.Mask

	entityArchetype map[EntityID]mask.Mask
	entityComponents map[EntityID]map[reflect.Type]*ComponentColumn

	entities *entityAllocator

	queryCache *SimpleCache[mask.Mask, []QueryResult]
	version    uint64

	systems []System

	bus *EventBus

	logger zerolog.Logger

	columnConfig columnConfig

	locks   mask.Mask256
	pending []entityOperation
}

// Option configures a World at construction time.
type Option func(*World)

// WithLogger sets the structured logger used for non-fatal warnings (e.g.
// RemoveEntity on an unknown id), system-scheduler diagnostics, and event
// bus drain errors. The default is a disabled logger, so a World stays
// silent unless a caller opts in.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *World) { w.logger = logger }
}

// WithInitialCapacity overrides the number of rows this world's component
// columns allocate before their first growth, in place of the package-level
// Config.initialCapacity.
func WithInitialCapacity(n int) Option {
	return func(w *World) { w.columnConfig.initialCapacity = n }
}

// WithGrowthFactor overrides the amortized growth multiplier this world's
// component columns use, in place of the package-level Config.growthFactor.
// Values at or below 1.0 are rejected in favor of whatever this world
// already had, since they would not amortize reallocation.
func WithGrowthFactor(f float64) Option {
	return func(w *World) {
		if f <= 1.0 {
			return
		}
		w.columnConfig.growthFactor = f
	}
}

// WithSentinel overrides the fill value this world's component columns write
// into rows that hold no data, in place of the package-level Config.sentinel.
func WithSentinel(v float64) Option {
	return func(w *World) { w.columnConfig.sentinel = v }
}

// NewWorld constructs an empty World: one empty-signature root archetype,
// no registered components or systems, a disabled logger unless overridden
// by WithLogger, and column tunables taken from the package-level Config
// unless overridden by WithInitialCapacity/WithGrowthFactor/WithSentinel.
// These overrides are frozen into this World's own columnConfig at
// construction time, so two Worlds can be tuned independently of one
// another and of later mutations to Config.
func NewWorld(opts ...Option) *World {
	w := &World{
		archetypes:       make(map[mask.Mask]*Archetype),
		entityArchetype:  make(map[EntityID]mask.Mask),
		entityComponents: make(map[EntityID]map[reflect.Type]*ComponentColumn),
		entities:         newEntityAllocator(),
		queryCache:       newSimpleCache[mask.Mask, []QueryResult](),
		logger:           zerolog.Nop(),
		columnConfig:     defaultColumnConfig(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.registry = newComponentRegistryWithConfig(w.columnConfig)
	w.bus = newEventBus(w.logger)
	w.getOrCreateArchetype(mask.Mask{})
	return w
}

func (w *World) getOrCreateArchetype(sig mask.Mask) *Archetype {
	if arche, ok := w.archetypes[sig]; ok {
		return arche
	}
	arche := newArchetype(sig)
	w.archetypes[sig] = arche
	w.archetypeOrder = append(w.archetypeOrder, sig)
	return arche
}

func (w *World) invalidateQueries() {
	w.queryCache.Clear()
	w.version++
}

// Version returns a counter incremented on every structural mutation
// (CreateEntity, RemoveEntity, AddComponent, RemoveComponent). Useful for
// callers that want to detect whether their own cached Query results have
// gone stale without re-querying.
func (w *World) Version() uint64 { return w.version }

// RegisterComponent registers compType with the world, assigning its bit
// and, when instance is nil, building a default ComponentColumn for it.
// Registering an already-registered type with a nil instance is a no-op;
// with a distinct non-nil instance it is rejected.
func (w *World) RegisterComponent(compType ComponentType, instance *ComponentColumn) error {
	return w.registry.Register(compType, instance)
}

// CreateEntity allocates a new entity carrying exactly the given component
// types, written with the matching entries of initialData where present (a
// nil or missing entry uses that type's default value), and returns the new
// entity's id. An empty types list is valid: the entity is placed in the
// empty-signature root archetype.
func (w *World) CreateEntity(types []ComponentType, initialData map[ComponentType][]float64) (EntityID, error) {
	id := w.entities.allocate()

	comps := make(map[reflect.Type]*ComponentColumn, len(types))
	for _, t := range types {
		col := w.registry.InstanceOf(t)
		value := initialData[t]
		if err := col.Add(id, value); err != nil {
			for rt, addedCol := range comps {
				_ = addedCol.Remove(id)
				delete(comps, rt)
			}
			w.entities.release(id)
			return 0, err
		}
		comps[reflect.TypeOf(t)] = col
	}

	sig := w.registry.signatureOfTypeSet(comps)
	arche := w.getOrCreateArchetype(sig)
	arche.AddEntity(id, comps)

	w.entityArchetype[id] = sig
	w.entityComponents[id] = comps
	w.invalidateQueries()
	return id, nil
}

// RemoveEntity removes id and every component row it owns. Removing an id
// the world does not recognize is not an error: it is logged as a warning
// and otherwise ignored, since a system racing a deferred removal against
// another should not have to coordinate to avoid a hard failure.
func (w *World) RemoveEntity(id EntityID) {
	sig, ok := w.entityArchetype[id]
	if !ok {
		w.logger.Warn().Int("entity", int(id)).Msg("ecs: RemoveEntity called on unknown entity")
		return
	}
	arche := w.archetypes[sig]
	comps, _ := arche.RemoveEntity(id)
	for _, col := range comps {
		_ = col.Remove(id)
	}
	delete(w.entityArchetype, id)
	delete(w.entityComponents, id)
	w.entities.release(id)
	w.invalidateQueries()
}

// AddComponent attaches compType to id, writing initialData (or the type's
// default when nil) and migrating id into the archetype for its new,
// larger signature.
func (w *World) AddComponent(id EntityID, compType ComponentType, initialData []float64) error {
	sig, ok := w.entityArchetype[id]
	if !ok {
		return &EntityNotFoundError{EntityID: id}
	}
	rt := reflect.TypeOf(compType)
	if _, exists := w.entityComponents[id][rt]; exists {
		return &ComponentAlreadyOnEntityError{EntityID: id, Type: rt}
	}

	col := w.registry.InstanceOf(compType)
	if err := col.Add(id, initialData); err != nil {
		return err
	}

	oldArche := w.archetypes[sig]
	oldComps, _ := oldArche.RemoveEntity(id)

	newComps := make(map[reflect.Type]*ComponentColumn, len(oldComps)+1)
	for t, c := range oldComps {
		newComps[t] = c
	}
	newComps[rt] = col

	newSig := w.registry.signatureOfTypeSet(newComps)
	newArche := w.getOrCreateArchetype(newSig)
	newArche.AddEntity(id, newComps)

	w.entityArchetype[id] = newSig
	w.entityComponents[id] = newComps
	w.invalidateQueries()
	return nil
}

// RemoveComponent detaches compType from id, migrating it into the
// archetype for its smaller signature. Removing a component an entity does
// not carry is a no-op, not an error.
func (w *World) RemoveComponent(id EntityID, compType ComponentType) error {
	sig, ok := w.entityArchetype[id]
	if !ok {
		return &EntityNotFoundError{EntityID: id}
	}
	rt := reflect.TypeOf(compType)
	if _, exists := w.entityComponents[id][rt]; !exists {
		return nil
	}

	oldArche := w.archetypes[sig]
	oldComps, _ := oldArche.RemoveEntity(id)

	col := oldComps[rt]
	_ = col.Remove(id)

	newComps := make(map[reflect.Type]*ComponentColumn, len(oldComps)-1)
	for t, c := range oldComps {
		if t == rt {
			continue
		}
		newComps[t] = c
	}

	newSig := w.registry.signatureOfTypeSet(newComps)
	newArche := w.getOrCreateArchetype(newSig)
	newArche.AddEntity(id, newComps)

	w.entityArchetype[id] = newSig
	w.entityComponents[id] = newComps
	w.invalidateQueries()
	return nil
}

// EventBus returns the world's event bus.
func (w *World) EventBus() *EventBus { return w.bus }

// RegisterSystem adds sys to the scheduler, calls its Initialize, and
// re-sorts the scheduler by ascending priority, stable on ties so systems
// registered earlier at equal priority still run first.
func (w *World) RegisterSystem(sys System) error {
	if err := sys.Initialize(w); err != nil {
		return err
	}
	w.systems = append(w.systems, sys)
	sort.SliceStable(w.systems, func(i, j int) bool {
		return w.systems[i].Priority() < w.systems[j].Priority()
	})
	return nil
}

// UpdateSystems runs every enabled, registered system's Update in priority
// order, restricted to group when non-empty. The first system to return an
// error stops the run immediately: later systems in the same call do not
// run, and no already-applied mutation is rolled back.
func (w *World) UpdateSystems(dt float64, group string) error {
	for _, sys := range w.systems {
		if !sys.Enabled() {
			continue
		}
		if group != "" && sys.Group() != group {
			continue
		}
		if err := sys.Update(w, dt); err != nil {
			w.logger.Error().
				Err(err).
				Str("system", sys.Name()).
				Float64("priority", sys.Priority()).
				Msg("ecs: system update failed, halting this tick's scheduler run")
			return err
		}
	}
	return nil
}

// Update runs UpdateSystems followed by a single EventBus DrainOnce, so any
// events published synchronously or queued by this tick's systems are
// delivered before Update returns.
func (w *World) Update(dt float64, group string) error {
	if err := w.UpdateSystems(dt, group); err != nil {
		return err
	}
	return w.bus.DrainOnce()
}
