package ecs

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// ComponentType describes a component kind: how many float64 values one row
// holds. Concrete component types are ordinarily zero-size tokens, e.g.
//
//	type Position struct{}
//	func (Position) Dimensions() int { return 2 }
//
// used purely as a key to identify the column; the column itself, not the
// token, owns the data.
type ComponentType interface {
	Dimensions() int
}

// DefaultValuer is an optional extension of ComponentType. A type that
// implements it supplies the value written for a row when Add is called
// with a nil value, instead of the zero tuple.
type DefaultValuer interface {
	Default() []float64
}

func defaultValueOf(t ComponentType) []float64 {
	if dv, ok := t.(DefaultValuer); ok {
		d := dv.Default()
		if d != nil {
			return d
		}
	}
	return make([]float64, t.Dimensions())
}

// ComponentColumn is the per-world, per-type storage for one component: a
// NumericColumn plus the bookkeeping that maps entities to rows. There is
// exactly one ComponentColumn per registered component type per world,
// shared by every entity that carries that component.
type ComponentColumn struct {
	column       *NumericColumn
	dims         int
	defaultValue []float64
	entityToRow  map[EntityID]int
	freeRows     []int
	size         int
}

func newComponentColumn(dims int, def []float64) *ComponentColumn {
	return newComponentColumnWithConfig(dims, def, defaultColumnConfig())
}

func newComponentColumnWithConfig(dims int, def []float64, cfg columnConfig) *ComponentColumn {
	if def == nil {
		def = make([]float64, dims)
	}
	return &ComponentColumn{
		column:       newNumericColumnWithConfig(cfg.initialCapacity, dims, cfg.growthFactor, cfg.sentinel),
		dims:         dims,
		defaultValue: def,
		entityToRow:  make(map[EntityID]int),
	}
}

// Dimensions returns the column's fixed row width.
func (c *ComponentColumn) Dimensions() int { return c.dims }

// Size returns the number of rows currently in use.
func (c *ComponentColumn) Size() int { return c.size }

// Capacity returns the number of rows currently allocated.
func (c *ComponentColumn) Capacity() int { return c.column.Capacity() }

// Add assigns entity a row and writes value into it. A nil value writes the
// column's default. Re-adding an entity that already has a row is an error;
// callers that want an upsert should use UpdateValue instead.
func (c *ComponentColumn) Add(id EntityID, value []float64) error {
	if _, exists := c.entityToRow[id]; exists {
		return &ComponentInstanceExistsError{EntityID: id}
	}
	if value == nil {
		value = c.defaultValue
	}
	if len(value) != c.dims {
		return &DimensionMismatchError{Expected: c.dims, Got: len(value)}
	}
	var row int
	if n := len(c.freeRows); n > 0 {
		row = c.freeRows[n-1]
		c.freeRows = c.freeRows[:n-1]
	} else {
		row = c.size
		c.column.EnsureCapacity(row + 1)
	}
	if err := c.column.Write(row, value); err != nil {
		return err
	}
	c.entityToRow[id] = row
	c.size++
	return nil
}

// Remove releases entity's row, swapping the last occupied row into its
// place to keep the column dense; the vacated row is refilled with the
// sentinel. Removing an entity that holds no row is a no-op, matching the
// idempotent removal contract used throughout the library.
func (c *ComponentColumn) Remove(id EntityID) error {
	row, ok := c.entityToRow[id]
	if !ok {
		return nil
	}
	last := c.size - 1
	if row != last {
		owner, found := c.ownerOfRow(last)
		if !found {
			panic(bark.AddTrace(fmt.Errorf("ecs: component column has no owner for row %d", last)))
		}
		values, err := c.column.Read(last)
		if err != nil {
			panic(bark.AddTrace(err))
		}
		if err := c.column.Write(row, values); err != nil {
			panic(bark.AddTrace(err))
		}
		c.entityToRow[owner] = row
	}
	c.column.clearRow(last)
	delete(c.entityToRow, id)
	c.freeRows = append(c.freeRows, last)
	c.size--
	return nil
}

func (c *ComponentColumn) ownerOfRow(row int) (EntityID, bool) {
	for id, r := range c.entityToRow {
		if r == row {
			return id, true
		}
	}
	return 0, false
}

// UpdateValue overwrites entity's existing row. It returns
// ComponentNotFoundError if entity has no row in this column.
func (c *ComponentColumn) UpdateValue(id EntityID, value []float64) error {
	row, ok := c.entityToRow[id]
	if !ok {
		return &ComponentNotFoundError{EntityID: id}
	}
	if len(value) != c.dims {
		return &DimensionMismatchError{Expected: c.dims, Got: len(value)}
	}
	return c.column.Write(row, value)
}

// GetValue returns a copy of entity's row.
func (c *ComponentColumn) GetValue(id EntityID) ([]float64, error) {
	row, ok := c.entityToRow[id]
	if !ok {
		return nil, &ComponentNotFoundError{EntityID: id}
	}
	return c.column.Read(row)
}

// Contains reports whether entity currently holds a row in this column.
func (c *ComponentColumn) Contains(id EntityID) bool {
	_, ok := c.entityToRow[id]
	return ok
}

// EntityToRow returns a snapshot copy of the entity-to-row mapping.
func (c *ComponentColumn) EntityToRow() map[EntityID]int {
	out := make(map[EntityID]int, len(c.entityToRow))
	for k, v := range c.entityToRow {
		out[k] = v
	}
	return out
}
