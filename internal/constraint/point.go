// Package constraint provides joint-like objects that attach to rigid
// bodies by back-reference. A constraint never owns a body; it tracks
// identities, rebuilds its body-local frames when a body is
// reconstructed, and drops its references when a body is released.
package constraint

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/rigidbody"
	"github.com/san-kum/rigidsim/internal/scene"
)

// Point is a point-to-point spring joint between two bodies. Pivots are
// authored relative to each entity's visual pivot; the body-local
// frames derived from them depend on each body's center of mass and so
// must be recomputed whenever a body is rebuilt.
type Point struct {
	id uint64

	bodyA *rigidbody.RigidBody
	bodyB *rigidbody.RigidBody

	pivotA mgl64.Vec3
	pivotB mgl64.Vec3

	frameA mgl64.Vec3
	frameB mgl64.Vec3

	stiffness float64
	released  bool
}

// NewPoint creates the joint and registers it with both bodies.
func NewPoint(a, b *rigidbody.RigidBody, pivotA, pivotB mgl64.Vec3, stiffness float64) *Point {
	p := &Point{
		id:        scene.NextID(),
		bodyA:     a,
		bodyB:     b,
		pivotA:    pivotA,
		pivotB:    pivotB,
		stiffness: stiffness,
	}
	a.AddConstraint(p)
	b.AddConstraint(p)
	p.ApplyFrames()
	return p
}

func (p *Point) ObjectID() uint64 { return p.id }

// ApplyFrames recomputes the body-local anchor frames. Called after a
// body rebuild, when the center of mass may have shifted.
func (p *Point) ApplyFrames() {
	p.frameA = p.pivotA.Sub(p.bodyA.CenterOfMass())
	p.frameB = p.pivotB.Sub(p.bodyB.CenterOfMass())
	p.released = false
}

// Release drops the joint's hold on its bodies. Called before a body
// handle is destroyed so nothing dangles across the rebuild.
func (p *Point) Release() {
	p.released = true
}

func (p *Point) Released() bool { return p.released }

// Detach removes the joint from both bodies' tracked sets.
func (p *Point) Detach() {
	p.released = true
	p.bodyA.RemoveConstraint(p)
	p.bodyB.RemoveConstraint(p)
}

// ApplyTension applies an equal and opposite spring force pulling the
// two world-space anchors together. A released joint does nothing.
func (p *Point) ApplyTension() {
	if p.released {
		return
	}

	anchorA := p.worldAnchor(p.bodyA, p.frameA)
	anchorB := p.worldAnchor(p.bodyB, p.frameB)
	stretch := anchorB.Sub(anchorA)

	force := stretch.Mul(p.stiffness)
	p.bodyA.ApplyForceAt(force, p.bodyA.Rotation().Rotate(p.frameA), rigidbody.Force)
	p.bodyB.ApplyForceAt(force.Mul(-1), p.bodyB.Rotation().Rotate(p.frameB), rigidbody.Force)
}

// WorldAnchors returns both anchor points in world space.
func (p *Point) WorldAnchors() (mgl64.Vec3, mgl64.Vec3) {
	return p.worldAnchor(p.bodyA, p.frameA), p.worldAnchor(p.bodyB, p.frameB)
}

func (p *Point) worldAnchor(rb *rigidbody.RigidBody, frame mgl64.Vec3) mgl64.Vec3 {
	return rb.Position().Add(rb.Rotation().Rotate(frame.Add(rb.CenterOfMass())))
}
