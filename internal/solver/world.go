package solver

import (
	"github.com/go-gl/mathgl/mgl64"
)

// World owns the set of live bodies and advances them once per frame.
// It is not a full dynamics engine: there is no collision detection or
// constraint solving here, only integration, per-body gravity, axis
// factors, motion-state synchronization, and sleep bookkeeping. All
// calls must come from the thread that owns the step.
type World struct {
	gravity mgl64.Vec3
	bodies  []*Body
}

func NewWorld() *World {
	return &World{
		gravity: mgl64.Vec3{0, -9.81, 0},
	}
}

// Gravity is the world default. Bodies carry their own vector, applied
// at registration time by the owning layer; the default is only a
// starting value for bodies that do not override it.
func (w *World) Gravity() mgl64.Vec3     { return w.gravity }
func (w *World) SetGravity(g mgl64.Vec3) { w.gravity = g }

func (w *World) AddBody(b *Body) {
	if b == nil {
		return
	}
	w.bodies = append(w.bodies, b)
}

// RemoveBody unregisters a body, matched by identity. Removing a body
// that is not registered is a no-op.
func (w *World) RemoveBody(b *Body) {
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

func (w *World) Contains(b *Body) bool {
	for _, other := range w.bodies {
		if other == b {
			return true
		}
	}
	return false
}

func (w *World) Bodies() []*Body { return w.bodies }

// Step advances every registered body by dt seconds. Kinematic bodies
// pull their pose from the motion state; dynamic bodies integrate and
// push the result back through it. Motion-state callbacks run
// synchronously inside this call and must not mutate the body set.
func (w *World) Step(dt float64) {
	for _, b := range w.bodies {
		if b.kinematic {
			if b.motionState != nil {
				b.worldTransform = b.motionState.WorldTransform()
				b.interpTransform = b.worldTransform
			}
			continue
		}
		if b.invMass == 0 {
			b.clearStepForces()
			continue
		}
		if !b.IsActive() {
			continue
		}

		w.integrate(b, dt)

		if b.motionState != nil {
			b.motionState.SetWorldTransform(b.worldTransform)
		}

		w.updateActivation(b, dt)
	}
}

// integrate runs one semi-implicit Euler step: velocities first, then
// the pose from the new velocities.
func (w *World) integrate(b *Body, dt float64) {
	accel := b.gravity.Add(b.totalForce.Mul(b.invMass))
	b.linearVelocity = b.linearVelocity.Add(mulElem(accel.Mul(dt), b.linearFactor))
	b.angularVelocity = b.angularVelocity.Add(mulElem(b.invInertiaWorld(b.totalTorque).Mul(dt), b.angularFactor))

	b.worldTransform.Origin = b.worldTransform.Origin.Add(b.linearVelocity.Mul(dt))
	b.worldTransform.Rotation = integrateRotation(b.worldTransform.Rotation, b.angularVelocity, dt)
	b.interpTransform = b.worldTransform

	b.clearStepForces()
}

func (b *Body) clearStepForces() {
	b.totalForce = mgl64.Vec3{}
	b.totalTorque = mgl64.Vec3{}
}

// integrateRotation advances a unit quaternion by an angular velocity:
// q' = q + 0.5*dt*(omega as quat)*q, renormalized.
func integrateRotation(q mgl64.Quat, omega mgl64.Vec3, dt float64) mgl64.Quat {
	spin := mgl64.Quat{W: 0, V: omega}
	dq := spin.Mul(q).Scale(0.5 * dt)
	return q.Add(dq).Normalize()
}

// updateActivation accumulates idle time while the body is below the
// sleep thresholds and puts it to sleep past the timeout. A body that
// asked to deactivate sleeps as soon as it settles.
func (w *World) updateActivation(b *Body, dt float64) {
	switch b.activationState {
	case StateSleeping, StateDisableDeactivation:
		return
	}

	settled := b.linearVelocity.Len() < linearSleepThreshold &&
		b.angularVelocity.Len() < angularSleepThreshold
	if !settled {
		b.idleTime = 0
		return
	}

	b.idleTime += dt
	if b.activationState == StateWantsDeactivation || b.idleTime > b.deactivationTimeout.Seconds() {
		b.activationState = StateSleeping
		b.linearVelocity = mgl64.Vec3{}
		b.angularVelocity = mgl64.Vec3{}
	}
}
