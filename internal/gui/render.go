package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/rigidbody"
	"github.com/san-kum/rigidsim/internal/scene"
	"github.com/san-kum/rigidsim/internal/shape"
)

func toRaylib(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

// drawEntity renders an entity's collider as wireframe geometry at its
// transform position. Rotation is not visualized; this is a positional
// debug view.
func drawEntity(e *scene.Entity) {
	col, ok := e.Component("collider").(*shape.Collider)
	if !ok || col.Shape() == nil {
		return
	}

	color := colStatic
	if rb, ok := e.Component("rigidbody").(*rigidbody.RigidBody); ok && rb.Mass() > 0 {
		color = colDynamic
		if !rb.IsActivated() {
			color = colAsleep
		}
	}

	pos := toRaylib(e.Transform().Position())
	switch s := col.Shape().(type) {
	case shape.Box:
		he := s.HalfExtents
		rl.DrawCubeWires(pos, float32(2*he.X()), float32(2*he.Y()), float32(2*he.Z()), color)
	case shape.Sphere:
		rl.DrawSphereWires(pos, float32(s.Radius), 8, 8, color)
	case shape.Capsule:
		half := float32(s.Height / 2)
		top := rl.NewVector3(pos.X, pos.Y+half, pos.Z)
		bottom := rl.NewVector3(pos.X, pos.Y-half, pos.Z)
		rl.DrawCapsuleWires(bottom, top, float32(s.Radius), 8, 4, color)
	}
}
