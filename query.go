package ecs

import (
	"reflect"
)

// QueryResult is one matching row returned from World.Query: an entity plus
// the columns it holds for each of its component types (the queried ones and
// any others it carries), ready for GetValue/UpdateValue without a second
// lookup.
type QueryResult struct {
	Entity     EntityID
	components map[reflect.Type]*ComponentColumn
}

// Get returns the column backing compType for this result's entity, if the
// entity carries it. Since Query only ever returns entities that matched
// the requested types, this normally succeeds for any type named in the
// query that produced the result.
func (q QueryResult) Get(compType ComponentType) (*ComponentColumn, bool) {
	col, ok := q.components[reflect.TypeOf(compType)]
	return col, ok
}

// Value is a convenience for Get followed by GetValue.
func (q QueryResult) Value(compType ComponentType) ([]float64, error) {
	col, ok := q.Get(compType)
	if !ok {
		return nil, &ComponentNotFoundError{EntityID: q.Entity}
	}
	return col.GetValue(q.Entity)
}

// Query returns every live entity that carries all of the given component
// types, along with column handles for every component type it carries.
// Results are a snapshot slice:
// safe to finish iterating, but not kept up to date across subsequent
// mutations. Results are cached by the query's combined signature and the
// cache is invalidated wholesale by any structural mutation (CreateEntity,
// RemoveEntity, AddComponent, RemoveComponent).
func (w *World) Query(types ...ComponentType) []QueryResult {
	queryMask := w.registry.ComputeSignature(types)
	if cached, ok := w.queryCache.Get(queryMask); ok {
		return cached
	}

	var results []QueryResult
	for _, sig := range w.archetypeOrder {
		arche := w.archetypes[sig]
		if !sig.ContainsAll(queryMask) {
			continue
		}
		for _, id := range arche.entities {
			idx := arche.indexOf[id]
			comps := make(map[reflect.Type]*ComponentColumn, len(arche.storage))
			for rt, list := range arche.storage {
				comps[rt] = list[idx]
			}
			results = append(results, QueryResult{Entity: id, components: comps})
		}
	}

	w.queryCache.Set(queryMask, results)
	return results
}
