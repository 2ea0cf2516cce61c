package solver

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// ActivationState tracks whether a body participates in integration.
// Sleeping bodies are skipped entirely until something wakes them.
type ActivationState int

const (
	StateActive ActivationState = iota
	StateWantsDeactivation
	StateSleeping
	StateDisableDeactivation
)

const (
	// DeactivationTimeout is how long a body must stay below the sleep
	// thresholds before it is put to sleep.
	DeactivationTimeout = 2 * time.Second

	linearSleepThreshold  = 0.8
	angularSleepThreshold = 1.0
)

// Transform is a rigid pose: world-space origin plus rotation.
type Transform struct {
	Origin   mgl64.Vec3
	Rotation mgl64.Quat
}

func IdentityTransform() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

// MotionState bridges an externally owned transform and the solver pose.
// WorldTransform is the pull direction (engine -> solver), consulted for
// bodies that drive their own pose (kinematic). SetWorldTransform is the
// push direction (solver -> engine), invoked after integration.
type MotionState interface {
	WorldTransform() Transform
	SetWorldTransform(Transform)
}

// ConstructionInfo carries everything a body needs at construction time.
// Mass 0 denotes a static body. LocalInertia is the diagonal inertia in
// body-local space, already computed for the given mass.
type ConstructionInfo struct {
	Mass            float64
	LocalInertia    mgl64.Vec3
	Friction        float64
	RollingFriction float64
	Restitution     float64
	MotionState     MotionState
}

// Body is a live rigid body registered with a World. It is exclusively
// owned by whoever constructed it; the world holds it only between
// AddBody and RemoveBody.
type Body struct {
	mass         float64
	invMass      float64
	localInertia mgl64.Vec3
	invInertia   mgl64.Vec3

	friction        float64
	rollingFriction float64
	restitution     float64

	linearVelocity  mgl64.Vec3
	angularVelocity mgl64.Vec3
	totalForce      mgl64.Vec3
	totalTorque     mgl64.Vec3

	linearFactor  mgl64.Vec3
	angularFactor mgl64.Vec3

	gravity   mgl64.Vec3
	kinematic bool

	activationState     ActivationState
	idleTime            float64
	deactivationTimeout time.Duration

	worldTransform  Transform
	interpTransform Transform

	motionState MotionState
	userData    any
}

func NewBody(info ConstructionInfo) *Body {
	b := &Body{
		mass:                info.Mass,
		localInertia:        info.LocalInertia,
		friction:            info.Friction,
		rollingFriction:     info.RollingFriction,
		restitution:         info.Restitution,
		linearFactor:        mgl64.Vec3{1, 1, 1},
		angularFactor:       mgl64.Vec3{1, 1, 1},
		activationState:     StateActive,
		deactivationTimeout: DeactivationTimeout,
		worldTransform:      IdentityTransform(),
		interpTransform:     IdentityTransform(),
		motionState:         info.MotionState,
	}
	if b.mass > 0 {
		b.invMass = 1.0 / b.mass
	}
	b.UpdateInertiaTensor()
	if b.motionState != nil {
		b.worldTransform = b.motionState.WorldTransform()
		b.interpTransform = b.worldTransform
	}
	return b
}

func (b *Body) Mass() float64        { return b.mass }
func (b *Body) InverseMass() float64 { return b.invMass }

func (b *Body) Friction() float64            { return b.friction }
func (b *Body) SetFriction(f float64)        { b.friction = f }
func (b *Body) RollingFriction() float64     { return b.rollingFriction }
func (b *Body) SetRollingFriction(f float64) { b.rollingFriction = f }
func (b *Body) Restitution() float64         { return b.restitution }
func (b *Body) SetRestitution(r float64)     { b.restitution = r }

func (b *Body) LinearVelocity() mgl64.Vec3      { return b.linearVelocity }
func (b *Body) SetLinearVelocity(v mgl64.Vec3)  { b.linearVelocity = mulElem(v, b.linearFactor) }
func (b *Body) AngularVelocity() mgl64.Vec3     { return b.angularVelocity }
func (b *Body) SetAngularVelocity(v mgl64.Vec3) { b.angularVelocity = mulElem(v, b.angularFactor) }

func (b *Body) LinearFactor() mgl64.Vec3      { return b.linearFactor }
func (b *Body) SetLinearFactor(f mgl64.Vec3)  { b.linearFactor = f }
func (b *Body) AngularFactor() mgl64.Vec3     { return b.angularFactor }
func (b *Body) SetAngularFactor(f mgl64.Vec3) { b.angularFactor = f }

// Gravity is per-body: the owning layer decides at registration time
// whether the world default, an override, or zero applies.
func (b *Body) Gravity() mgl64.Vec3     { return b.gravity }
func (b *Body) SetGravity(g mgl64.Vec3) { b.gravity = g }

func (b *Body) Kinematic() bool          { return b.kinematic }
func (b *Body) SetKinematic(k bool)      { b.kinematic = k }
func (b *Body) MotionState() MotionState { return b.motionState }

func (b *Body) UserData() any     { return b.userData }
func (b *Body) SetUserData(v any) { b.userData = v }

func (b *Body) WorldTransform() Transform             { return b.worldTransform }
func (b *Body) SetWorldTransform(t Transform)         { b.worldTransform = t }
func (b *Body) InterpolationTransform() Transform     { return b.interpTransform }
func (b *Body) SetInterpolationTransform(t Transform) { b.interpTransform = t }

func (b *Body) ActivationState() ActivationState { return b.activationState }

// SetActivationState requests a state change; DisableDeactivation is
// sticky and can only be cleared with ForceActivationState.
func (b *Body) SetActivationState(s ActivationState) {
	if b.activationState == StateDisableDeactivation {
		return
	}
	b.activationState = s
}

// ForceActivationState sets the state unconditionally.
func (b *Body) ForceActivationState(s ActivationState) {
	b.activationState = s
	b.idleTime = 0
}

func (b *Body) DeactivationTimeout() time.Duration     { return b.deactivationTimeout }
func (b *Body) SetDeactivationTimeout(d time.Duration) { b.deactivationTimeout = d }

// Activate wakes the body. With force set it also clears WantsDeactivation
// and Sleeping; without it, a sticky DisableDeactivation is left alone.
func (b *Body) Activate(force bool) {
	if b.activationState == StateDisableDeactivation && !force {
		return
	}
	if b.activationState != StateDisableDeactivation {
		b.activationState = StateActive
	}
	b.idleTime = 0
}

// IsActive reports whether the body participates in integration.
func (b *Body) IsActive() bool {
	return b.activationState != StateSleeping
}

// UpdateInertiaTensor recomputes the inverse inertia from the local
// inertia diagonal. Call after the rotation is changed externally so the
// world-space inertia stays consistent.
func (b *Body) UpdateInertiaTensor() {
	for i := 0; i < 3; i++ {
		if b.localInertia[i] != 0 {
			b.invInertia[i] = 1.0 / b.localInertia[i]
		} else {
			b.invInertia[i] = 0
		}
	}
}

func (b *Body) LocalInertia() mgl64.Vec3 { return b.localInertia }

// invInertiaWorld applies the world-space inverse inertia tensor:
// rotate into body space, scale by the diagonal, rotate back.
func (b *Body) invInertiaWorld(t mgl64.Vec3) mgl64.Vec3 {
	local := b.worldTransform.Rotation.Inverse().Rotate(t)
	scaled := mulElem(local, b.invInertia)
	return b.worldTransform.Rotation.Rotate(scaled)
}

// ApplyCentralForce accumulates a force through the center of mass.
// Cleared after the next integration step.
func (b *Body) ApplyCentralForce(force mgl64.Vec3) {
	b.totalForce = b.totalForce.Add(mulElem(force, b.linearFactor))
}

// ApplyCentralImpulse changes linear velocity immediately.
func (b *Body) ApplyCentralImpulse(impulse mgl64.Vec3) {
	if b.invMass == 0 {
		return
	}
	b.linearVelocity = b.linearVelocity.Add(mulElem(impulse.Mul(b.invMass), b.linearFactor))
}

// ApplyForceAt applies a force at a position relative to the center of
// mass, contributing both linear force and torque.
func (b *Body) ApplyForceAt(force, relPos mgl64.Vec3) {
	b.ApplyCentralForce(force)
	b.ApplyTorque(relPos.Cross(mulElem(force, b.linearFactor)))
}

// ApplyImpulseAt applies an impulse at a position relative to the center
// of mass.
func (b *Body) ApplyImpulseAt(impulse, relPos mgl64.Vec3) {
	b.ApplyCentralImpulse(impulse)
	b.ApplyTorqueImpulse(relPos.Cross(mulElem(impulse, b.linearFactor)))
}

func (b *Body) ApplyTorque(torque mgl64.Vec3) {
	b.totalTorque = b.totalTorque.Add(mulElem(torque, b.angularFactor))
}

func (b *Body) ApplyTorqueImpulse(torque mgl64.Vec3) {
	delta := b.invInertiaWorld(mulElem(torque, b.angularFactor))
	b.angularVelocity = b.angularVelocity.Add(delta)
}

func (b *Body) TotalForce() mgl64.Vec3  { return b.totalForce }
func (b *Body) TotalTorque() mgl64.Vec3 { return b.totalTorque }

func (b *Body) ClearForces() {
	b.totalForce = mgl64.Vec3{}
	b.totalTorque = mgl64.Vec3{}
}

func mulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
