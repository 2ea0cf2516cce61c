package rigidbody

import (
	"github.com/san-kum/rigidsim/internal/solver"
)

// motionState is the bidirectional transform bridge between the entity
// transform and the solver pose. The offset arithmetic here is the sole
// mechanism keeping a visually-pivoted entity consistent with a body
// whose center of mass does not coincide with that pivot. Both
// callbacks run synchronously inside the world step and must never
// trigger a rebuild.
type motionState struct {
	rb *RigidBody
}

// WorldTransform pulls the engine's desired pose: the body origin is
// the entity pivot plus the rotated center-of-mass offset.
func (m *motionState) WorldTransform() solver.Transform {
	t := m.rb.entity.Transform()
	pos := t.Position()
	rot := t.Rotation()
	return solver.Transform{
		Origin:   pos.Add(rot.Rotate(m.rb.centerOfMass)),
		Rotation: rot,
	}
}

// SetWorldTransform pushes the integrated pose back: the entity pivot
// is the body origin minus the rotated center-of-mass offset.
func (m *motionState) SetWorldTransform(wt solver.Transform) {
	rot := wt.Rotation
	pos := wt.Origin.Sub(rot.Rotate(m.rb.centerOfMass))

	t := m.rb.entity.Transform()
	t.SetPosition(pos)
	t.SetRotation(rot)
}
