package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

var nextObjectID uint64

// NextID hands out process-unique object identities. Single-threaded by
// contract: everything in a scene runs on the thread that owns the step.
func NextID() uint64 {
	nextObjectID++
	return nextObjectID
}

// Transform is an entity's world pose, owned by the scene layer. The
// physics layer reads and writes it through the entity.
type Transform struct {
	position mgl64.Vec3
	rotation mgl64.Quat
	scale    mgl64.Vec3
}

func NewTransform() *Transform {
	return &Transform{
		rotation: mgl64.QuatIdent(),
		scale:    mgl64.Vec3{1, 1, 1},
	}
}

func (t *Transform) Position() mgl64.Vec3     { return t.position }
func (t *Transform) SetPosition(p mgl64.Vec3) { t.position = p }
func (t *Transform) Rotation() mgl64.Quat     { return t.rotation }
func (t *Transform) SetRotation(r mgl64.Quat) { t.rotation = r }
func (t *Transform) Scale() mgl64.Vec3        { return t.scale }
func (t *Transform) SetScale(s mgl64.Vec3)    { t.scale = s }

// Component is a capability attached to an entity. OnInitialize fires
// when the component is attached, OnStart when the scene enters play
// mode, OnTick once per frame before the world steps, OnRemove when the
// component is detached or the entity destroyed.
type Component interface {
	Name() string
	OnInitialize()
	OnStart()
	OnTick(dt float64)
	OnRemove()
}

// NopComponent provides no-op lifecycle hooks for components that only
// need a subset.
type NopComponent struct{}

func (NopComponent) OnInitialize()     {}
func (NopComponent) OnStart()          {}
func (NopComponent) OnTick(dt float64) {}
func (NopComponent) OnRemove()         {}

// Entity is a named scene object with a transform and an ordered set of
// components.
type Entity struct {
	id         uint64
	name       string
	transform  *Transform
	components []Component
}

func NewEntity(name string) *Entity {
	return &Entity{
		id:        NextID(),
		name:      name,
		transform: NewTransform(),
	}
}

func (e *Entity) ID() uint64            { return e.id }
func (e *Entity) Name() string          { return e.name }
func (e *Entity) Transform() *Transform { return e.transform }

// AddComponent attaches a component and runs its OnInitialize hook.
func (e *Entity) AddComponent(c Component) {
	e.components = append(e.components, c)
	c.OnInitialize()
}

// RemoveComponent detaches the first component with the given name,
// running its OnRemove hook.
func (e *Entity) RemoveComponent(name string) {
	for i, c := range e.components {
		if c.Name() == name {
			c.OnRemove()
			e.components = append(e.components[:i], e.components[i+1:]...)
			return
		}
	}
}

// Component returns the first attached component with the given name,
// or nil.
func (e *Entity) Component(name string) Component {
	for _, c := range e.components {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func (e *Entity) Components() []Component { return e.components }
