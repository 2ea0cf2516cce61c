// Package rigidbody binds a scene entity's transform to a live rigid
// body in the solver world. The two sides own the pose at different
// times: the transform while the scene is edited or paused, the body
// while the simulation steps. Property changes the solver cannot apply
// in place (mass, shape, kinematic flag, gravity mode) rebuild the body
// from scratch and restore every piece of derived state afterward.
package rigidbody

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/scene"
	"github.com/san-kum/rigidsim/internal/shape"
	"github.com/san-kum/rigidsim/internal/solver"
)

const (
	defaultMass            = 0.0
	defaultFriction        = 0.5
	defaultRollingFriction = 0.0
	defaultRestitution     = 0.0
)

var vec3One = mgl64.Vec3{1, 1, 1}

// ForceMode selects between a continuous force and an instantaneous
// impulse.
type ForceMode int

const (
	Force ForceMode = iota
	Impulse
)

// ShapeProvider supplies a collision shape and center-of-mass offset.
// Queried once from the owning entity's components at acquisition time.
type ShapeProvider interface {
	Shape() shape.Shape
	Center() mgl64.Vec3
}

// Constraint is a joint-like object attached to this body. The body
// holds back-references only: it notifies constraints around a rebuild
// or release, and never owns them. Identity is matched by ObjectID.
type Constraint interface {
	ApplyFrames()
	Release()
	ObjectID() uint64
}

// RigidBody is the physics capability of an entity. The zero state is
// valid and inert: every operation that needs the live body guards on
// its presence and silently no-ops, while plain setters still update
// persisted fields so a later rebuild picks them up.
type RigidBody struct {
	entity *scene.Entity
	scn    *scene.Scene

	mass            float64
	friction        float64
	rollingFriction float64
	restitution     float64
	useGravity      bool
	gravity         mgl64.Vec3
	kinematic       bool
	positionLock    mgl64.Vec3
	rotationLock    mgl64.Vec3
	centerOfMass    mgl64.Vec3

	shp         shape.Shape
	body        *solver.Body
	inWorld     bool
	constraints []Constraint
	rebuilds    int
}

// New returns a rigid body with engine defaults: static (mass 0),
// gravity enabled with the world default vector, not kinematic, no
// locks. The live body is built on OnInitialize.
func New(e *scene.Entity, scn *scene.Scene) *RigidBody {
	return &RigidBody{
		entity:          e,
		scn:             scn,
		mass:            defaultMass,
		friction:        defaultFriction,
		rollingFriction: defaultRollingFriction,
		restitution:     defaultRestitution,
		useGravity:      true,
		gravity:         scn.World().Gravity(),
	}
}

func (rb *RigidBody) Name() string { return "rigidbody" }

func (rb *RigidBody) OnInitialize() {
	rb.acquireShape()
	rb.rebuild()
}

func (rb *RigidBody) OnStart() {
	rb.Activate()
}

func (rb *RigidBody) OnRemove() {
	rb.release()
}

// OnTick runs the per-frame synchronization policy: while the body is
// inactive or the scene is not playing, the entity transform is
// authoritative, so any divergence is an authored edit and the body is
// snapped to it with velocities zeroed.
func (rb *RigidBody) OnTick(dt float64) {
	if rb.body == nil {
		return
	}
	if rb.IsActivated() && rb.scn.Playing() {
		return
	}

	t := rb.entity.Transform()
	if rb.Position() != t.Position() {
		rb.SetPosition(t.Position(), false)
		rb.SetLinearVelocity(mgl64.Vec3{}, false)
		rb.SetAngularVelocity(mgl64.Vec3{}, false)
	}
	if rb.Rotation() != t.Rotation() {
		rb.SetRotation(t.Rotation(), false)
		rb.SetLinearVelocity(mgl64.Vec3{}, false)
		rb.SetAngularVelocity(mgl64.Vec3{}, false)
	}
}

func (rb *RigidBody) Mass() float64 { return rb.mass }

// SetMass clamps to >= 0 and rebuilds the body; the solver cannot
// change mass in place. Zero means static.
func (rb *RigidBody) SetMass(mass float64) {
	mass = max(mass, 0.0)
	if mass != rb.mass {
		rb.mass = mass
		rb.rebuild()
	}
}

func (rb *RigidBody) Friction() float64 { return rb.friction }

func (rb *RigidBody) SetFriction(friction float64) {
	if rb.friction == friction {
		return
	}
	rb.friction = friction
	if rb.body != nil {
		rb.body.SetFriction(friction)
	}
}

func (rb *RigidBody) RollingFriction() float64 { return rb.rollingFriction }

func (rb *RigidBody) SetRollingFriction(friction float64) {
	if rb.rollingFriction == friction {
		return
	}
	rb.rollingFriction = friction
	if rb.body != nil {
		rb.body.SetRollingFriction(friction)
	}
}

func (rb *RigidBody) Restitution() float64 { return rb.restitution }

func (rb *RigidBody) SetRestitution(restitution float64) {
	if rb.restitution == restitution {
		return
	}
	rb.restitution = restitution
	if rb.body != nil {
		rb.body.SetRestitution(restitution)
	}
}

func (rb *RigidBody) UsesGravity() bool { return rb.useGravity }

func (rb *RigidBody) SetUseGravity(use bool) {
	if use == rb.useGravity {
		return
	}
	rb.useGravity = use
	rb.rebuild()
}

func (rb *RigidBody) Gravity() mgl64.Vec3 { return rb.gravity }

// SetGravity overrides the world default for this body. Only meaningful
// while gravity is enabled.
func (rb *RigidBody) SetGravity(acceleration mgl64.Vec3) {
	if rb.gravity == acceleration {
		return
	}
	rb.gravity = acceleration
	rb.rebuild()
}

func (rb *RigidBody) IsKinematic() bool { return rb.kinematic }

func (rb *RigidBody) SetIsKinematic(kinematic bool) {
	if kinematic == rb.kinematic {
		return
	}
	rb.kinematic = kinematic
	rb.rebuild()
}

func (rb *RigidBody) LinearVelocity() mgl64.Vec3 {
	if rb.body == nil {
		return mgl64.Vec3{}
	}
	return rb.body.LinearVelocity()
}

func (rb *RigidBody) SetLinearVelocity(velocity mgl64.Vec3, activate bool) {
	if rb.body == nil {
		return
	}
	rb.body.SetLinearVelocity(velocity)
	if velocity != (mgl64.Vec3{}) && activate {
		rb.Activate()
	}
}

func (rb *RigidBody) AngularVelocity() mgl64.Vec3 {
	if rb.body == nil {
		return mgl64.Vec3{}
	}
	return rb.body.AngularVelocity()
}

func (rb *RigidBody) SetAngularVelocity(velocity mgl64.Vec3, activate bool) {
	if rb.body == nil {
		return
	}
	rb.body.SetAngularVelocity(velocity)
	if velocity != (mgl64.Vec3{}) && activate {
		rb.Activate()
	}
}

// ApplyForce applies a central force or impulse depending on mode and
// wakes the body.
func (rb *RigidBody) ApplyForce(force mgl64.Vec3, mode ForceMode) {
	if rb.body == nil {
		return
	}
	rb.Activate()
	switch mode {
	case Force:
		rb.body.ApplyCentralForce(force)
	case Impulse:
		rb.body.ApplyCentralImpulse(force)
	}
}

// ApplyForceAt applies a force or impulse at a position relative to the
// body's center of mass.
func (rb *RigidBody) ApplyForceAt(force, position mgl64.Vec3, mode ForceMode) {
	if rb.body == nil {
		return
	}
	rb.Activate()
	switch mode {
	case Force:
		rb.body.ApplyForceAt(force, position)
	case Impulse:
		rb.body.ApplyImpulseAt(force, position)
	}
}

func (rb *RigidBody) ApplyTorque(torque mgl64.Vec3, mode ForceMode) {
	if rb.body == nil {
		return
	}
	rb.Activate()
	switch mode {
	case Force:
		rb.body.ApplyTorque(torque)
	case Impulse:
		rb.body.ApplyTorqueImpulse(torque)
	}
}

func (rb *RigidBody) PositionLock() mgl64.Vec3 { return rb.positionLock }

// SetPositionLocked locks or unlocks all three position axes.
func (rb *RigidBody) SetPositionLocked(locked bool) {
	if locked {
		rb.SetPositionLock(vec3One)
	} else {
		rb.SetPositionLock(mgl64.Vec3{})
	}
}

// SetPositionLock stores the per-axis lock and applies (1 - lock) as
// the solver's linear movement factor.
func (rb *RigidBody) SetPositionLock(lock mgl64.Vec3) {
	if rb.positionLock == lock {
		return
	}
	rb.positionLock = lock
	if rb.body != nil {
		rb.body.SetLinearFactor(vec3One.Sub(lock))
	}
}

func (rb *RigidBody) RotationLock() mgl64.Vec3 { return rb.rotationLock }

// SetRotationLocked locks or unlocks all three rotation axes.
func (rb *RigidBody) SetRotationLocked(locked bool) {
	if locked {
		rb.SetRotationLock(vec3One)
	} else {
		rb.SetRotationLock(mgl64.Vec3{})
	}
}

func (rb *RigidBody) SetRotationLock(lock mgl64.Vec3) {
	if rb.rotationLock == lock {
		return
	}
	rb.rotationLock = lock
	if rb.body != nil {
		rb.body.SetAngularFactor(vec3One.Sub(lock))
	}
}

func (rb *RigidBody) CenterOfMass() mgl64.Vec3 { return rb.centerOfMass }

// SetCenterOfMass moves the body-local center of mass and re-applies
// the current position so the visual pivot stays where it was.
func (rb *RigidBody) SetCenterOfMass(center mgl64.Vec3) {
	pivot := rb.Position()
	rb.centerOfMass = center
	rb.SetPosition(pivot, true)
}

// Position is the entity-pivot position derived from the body's world
// transform: origin minus the rotated center-of-mass offset.
func (rb *RigidBody) Position() mgl64.Vec3 {
	if rb.body == nil {
		return mgl64.Vec3{}
	}
	wt := rb.body.WorldTransform()
	return wt.Origin.Sub(wt.Rotation.Rotate(rb.centerOfMass))
}

// SetPosition places the body so the entity pivot lands on position.
// The interpolated transform copy is updated too, so the change does
// not visually snap over the next frame.
func (rb *RigidBody) SetPosition(position mgl64.Vec3, activate bool) {
	if rb.body == nil {
		return
	}

	wt := rb.body.WorldTransform()
	wt.Origin = position.Add(wt.Rotation.Rotate(rb.centerOfMass))
	rb.body.SetWorldTransform(wt)

	it := rb.body.InterpolationTransform()
	it.Origin = wt.Origin
	rb.body.SetInterpolationTransform(it)

	if activate {
		rb.Activate()
	}
}

func (rb *RigidBody) Rotation() mgl64.Quat {
	if rb.body == nil {
		return mgl64.QuatIdent()
	}
	return rb.body.WorldTransform().Rotation
}

// SetRotation rotates the body about the entity pivot. A nonzero
// center-of-mass offset means the origin moves as well. The inertia
// tensor is refreshed since rotation changes its world-space form.
func (rb *RigidBody) SetRotation(rotation mgl64.Quat, activate bool) {
	if rb.body == nil {
		return
	}

	oldPivot := rb.Position()
	wt := rb.body.WorldTransform()
	wt.Rotation = rotation
	if rb.centerOfMass != (mgl64.Vec3{}) {
		wt.Origin = oldPivot.Add(rotation.Rotate(rb.centerOfMass))
	}
	rb.body.SetWorldTransform(wt)

	it := rb.body.InterpolationTransform()
	it.Rotation = wt.Rotation
	if rb.centerOfMass != (mgl64.Vec3{}) {
		it.Origin = wt.Origin
	}
	rb.body.SetInterpolationTransform(it)

	rb.body.UpdateInertiaTensor()

	if activate {
		rb.Activate()
	}
}

func (rb *RigidBody) ClearForces() {
	if rb.body == nil {
		return
	}
	rb.body.ClearForces()
}

// Activate wakes the body. Static bodies (mass 0) cannot be activated.
func (rb *RigidBody) Activate() {
	if rb.body == nil {
		return
	}
	if rb.mass > 0 {
		rb.body.Activate(true)
	}
}

// Deactivate requests sleep; the solver settles the body first.
func (rb *RigidBody) Deactivate() {
	if rb.body == nil {
		return
	}
	rb.body.SetActivationState(solver.StateWantsDeactivation)
}

func (rb *RigidBody) IsActivated() bool {
	if rb.body == nil {
		return false
	}
	return rb.body.IsActive()
}

func (rb *RigidBody) InWorld() bool { return rb.inWorld }

// Body exposes the live solver handle; nil while unbound or released.
func (rb *RigidBody) Body() *solver.Body { return rb.body }

func (rb *RigidBody) Shape() shape.Shape { return rb.shp }

// SetShape swaps the collision shape. A nil shape pulls the body out of
// the world; a real one rebuilds.
func (rb *RigidBody) SetShape(s shape.Shape) {
	rb.shp = s
	if rb.shp != nil {
		rb.rebuild()
	} else {
		rb.removeFromWorld()
	}
}

func (rb *RigidBody) AddConstraint(c Constraint) {
	rb.constraints = append(rb.constraints, c)
}

// RemoveConstraint drops every tracked constraint with a matching
// identity and wakes the body so it settles against the new topology.
func (rb *RigidBody) RemoveConstraint(c Constraint) {
	kept := rb.constraints[:0]
	for _, tracked := range rb.constraints {
		if tracked.ObjectID() != c.ObjectID() {
			kept = append(kept, tracked)
		}
	}
	rb.constraints = kept
	rb.Activate()
}

func (rb *RigidBody) Constraints() []Constraint { return rb.constraints }

// acquireShape pulls the shape handle and center-of-mass offset from
// the entity's shape provider, if one is attached.
func (rb *RigidBody) acquireShape() {
	for _, c := range rb.entity.Components() {
		if provider, ok := c.(ShapeProvider); ok {
			rb.shp = provider.Shape()
			rb.centerOfMass = provider.Center()
			return
		}
	}
}

// rebuild is the single path for every change the solver cannot apply
// in place. It tears the live body down and reconstructs it, restoring
// constraints, flags, transform, and locks, then registers it with the
// world.
func (rb *RigidBody) rebuild() {
	if rb.mass < 0 {
		rb.mass = 0
	}

	// Inertia comes purely from the shape and the current mass; zero
	// for a static body or while no shape is available.
	var localInertia mgl64.Vec3
	if rb.shp != nil {
		localInertia = rb.shp.Inertia(rb.mass)
	}

	rb.release()

	rb.body = solver.NewBody(solver.ConstructionInfo{
		Mass:            rb.mass,
		LocalInertia:    localInertia,
		Friction:        rb.friction,
		RollingFriction: rb.rollingFriction,
		Restitution:     rb.restitution,
		MotionState:     &motionState{rb: rb},
	})
	rb.body.SetUserData(rb)

	// The center of mass may have shifted; attached constraints rebuild
	// their body-local frames against the new body.
	for _, c := range rb.constraints {
		c.ApplyFrames()
	}

	rb.applyKinematicState()
	rb.applyGravityMode()

	t := rb.entity.Transform()
	rb.SetPosition(t.Position(), false)
	rb.SetRotation(t.Rotation(), false)

	rb.body.SetLinearFactor(vec3One.Sub(rb.positionLock))
	rb.body.SetAngularFactor(vec3One.Sub(rb.rotationLock))

	rb.scn.World().AddBody(rb.body)
	rb.inWorld = true
	rb.rebuilds++

	if rb.mass > 0 {
		rb.Activate()
	} else {
		// Static bodies must not carry residual motion.
		rb.body.SetLinearVelocity(mgl64.Vec3{})
		rb.body.SetAngularVelocity(mgl64.Vec3{})
	}
}

// release notifies constraints, pulls the body out of the world, and
// clears the handle. Terminal when called from OnRemove.
func (rb *RigidBody) release() {
	if rb.body == nil {
		return
	}

	for _, c := range rb.constraints {
		c.Release()
	}

	rb.removeFromWorld()
	rb.body = nil
}

func (rb *RigidBody) removeFromWorld() {
	if rb.body == nil {
		return
	}
	if rb.inWorld {
		rb.scn.World().RemoveBody(rb.body)
		rb.inWorld = false
	}
}

// applyKinematicState marks the body as pose-driving when kinematic and
// pins it awake; otherwise normal sleep rules with the default timeout
// apply and the body starts asleep until something activates it.
func (rb *RigidBody) applyKinematicState() {
	rb.body.SetKinematic(rb.kinematic)
	if rb.kinematic {
		rb.body.ForceActivationState(solver.StateDisableDeactivation)
	} else {
		rb.body.ForceActivationState(solver.StateSleeping)
	}
	rb.body.SetDeactivationTimeout(solver.DeactivationTimeout)
}

// applyGravityMode resolves the per-body gravity at registration time:
// the configured vector when enabled, zero when disabled.
func (rb *RigidBody) applyGravityMode() {
	if rb.useGravity {
		rb.body.SetGravity(rb.gravity)
	} else {
		rb.body.SetGravity(mgl64.Vec3{})
	}
}
