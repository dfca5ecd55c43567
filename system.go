package ecs

// System is one unit of per-tick simulation logic, run by a World's
// scheduler in ascending Priority order.
type System interface {
	Name() string
	Priority() float64
	Group() string
	Enabled() bool
	SetEnabled(bool)

	Initialize(w *World) error
	Update(w *World, dt float64) error
	Shutdown(w *World) error
	Reset()
}

// BaseSystem implements the bookkeeping every System needs (name, priority,
// group, enabled flag) and no-op Initialize/Shutdown/Reset, so a concrete
// system only has to embed it and implement Update.
//
//	type GravitySystem struct {
//	    ecs.BaseSystem
//	}
//	func NewGravitySystem() *GravitySystem {
//	    return &GravitySystem{BaseSystem: ecs.NewBaseSystem("gravity", 10, "physics")}
//	}
//	func (s *GravitySystem) Update(w *ecs.World, dt float64) error { ... }
type BaseSystem struct {
	name     string
	priority float64
	group    string
	enabled  bool
}

// NewBaseSystem builds a BaseSystem, enabled by default.
func NewBaseSystem(name string, priority float64, group string) BaseSystem {
	return BaseSystem{name: name, priority: priority, group: group, enabled: true}
}

func (b *BaseSystem) Name() string       { return b.name }
func (b *BaseSystem) Priority() float64  { return b.priority }
func (b *BaseSystem) Group() string      { return b.group }
func (b *BaseSystem) Enabled() bool      { return b.enabled }
func (b *BaseSystem) SetEnabled(v bool)  { b.enabled = v }
func (b *BaseSystem) Initialize(*World) error { return nil }
func (b *BaseSystem) Shutdown(*World) error   { return nil }
func (b *BaseSystem) Reset()                  {}
