package rigidbody

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/scene"
	"github.com/san-kum/rigidsim/internal/shape"
	"github.com/san-kum/rigidsim/internal/solver"
)

func newTestScene() *scene.Scene {
	return scene.New(solver.NewWorld())
}

// addBody wires an entity with a unit box collider and a rigid body of
// the given mass into the scene.
func addBody(sc *scene.Scene, name string, mass float64, center mgl64.Vec3) (*scene.Entity, *RigidBody) {
	e := scene.NewEntity(name)
	e.AddComponent(shape.NewCollider(shape.NewBox(mgl64.Vec3{0.5, 0.5, 0.5}), center))
	rb := New(e, sc)
	e.AddComponent(rb)
	sc.AddEntity(e)
	rb.SetMass(mass)
	return e, rb
}

func vecNear(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() < eps
}

type stubConstraint struct {
	id       uint64
	applied  int
	released int
}

func (s *stubConstraint) ApplyFrames()     { s.applied++ }
func (s *stubConstraint) Release()         { s.released++ }
func (s *stubConstraint) ObjectID() uint64 { return s.id }

func TestSetMassClampsNegative(t *testing.T) {
	sc := newTestScene()
	_, rb := addBody(sc, "crate", 1, mgl64.Vec3{})

	rb.SetMass(-5)
	if rb.Mass() != 0 {
		t.Errorf("expected mass clamped to 0, got %f", rb.Mass())
	}

	rb.SetMass(2.5)
	if rb.Mass() != 2.5 {
		t.Errorf("expected mass 2.5, got %f", rb.Mass())
	}
}

func TestLiveBodyImpliesInWorld(t *testing.T) {
	sc := newTestScene()
	_, rb := addBody(sc, "crate", 1, mgl64.Vec3{})

	if rb.Body() == nil {
		t.Fatal("expected live body after initialization")
	}
	if !rb.InWorld() {
		t.Error("live body must be registered with the world")
	}
	if !sc.World().Contains(rb.Body()) {
		t.Error("world does not contain the live body")
	}
}

func TestReleaseOnRemove(t *testing.T) {
	sc := newTestScene()
	e, rb := addBody(sc, "crate", 1, mgl64.Vec3{})

	body := rb.Body()
	e.RemoveComponent("rigidbody")

	if rb.Body() != nil {
		t.Error("expected handle cleared after removal")
	}
	if rb.InWorld() {
		t.Error("expected inWorld false after removal")
	}
	if sc.World().Contains(body) {
		t.Error("released body still registered with the world")
	}
}

func TestPositionRoundTripWithCenterOfMass(t *testing.T) {
	offsets := []mgl64.Vec3{
		{},
		{0.5, 0, 0},
		{0.25, -1, 0.75},
	}
	for _, com := range offsets {
		sc := newTestScene()
		_, rb := addBody(sc, "crate", 1, com)

		p := mgl64.Vec3{3, 7, -2}
		rb.SetPosition(p, false)
		if !vecNear(rb.Position(), p, 1e-9) {
			t.Errorf("com %v: expected position %v, got %v", com, p, rb.Position())
		}
	}
}

func TestRotationRoundTripPreservesPivot(t *testing.T) {
	sc := newTestScene()
	_, rb := addBody(sc, "crate", 1, mgl64.Vec3{1, 0, 0})

	p := mgl64.Vec3{2, 4, 6}
	rb.SetPosition(p, false)

	q := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	rb.SetRotation(q, false)

	if !vecNear(rb.Position(), p, 1e-9) {
		t.Errorf("rotation moved the pivot from %v to %v", p, rb.Position())
	}
	got := rb.Rotation().Rotate(mgl64.Vec3{1, 0, 0})
	want := q.Rotate(mgl64.Vec3{1, 0, 0})
	if !vecNear(got, want, 1e-9) {
		t.Errorf("expected rotation %v applied, got %v", want, got)
	}
}

func TestSetCenterOfMassPreservesPivot(t *testing.T) {
	sc := newTestScene()
	_, rb := addBody(sc, "crate", 1, mgl64.Vec3{})

	p := mgl64.Vec3{1, 5, 0}
	rb.SetPosition(p, false)

	rb.SetCenterOfMass(mgl64.Vec3{0, 1, 0})
	if !vecNear(rb.Position(), p, 1e-9) {
		t.Errorf("center-of-mass change moved pivot from %v to %v", p, rb.Position())
	}
}

func TestKinematicToggleRebuildsTwice(t *testing.T) {
	sc := newTestScene()
	e, rb := addBody(sc, "crate", 1, mgl64.Vec3{})

	p := mgl64.Vec3{1, 2, 3}
	e.Transform().SetPosition(p)
	rb.SetPosition(p, false)

	before := rb.rebuilds
	firstBody := rb.Body()

	rb.SetIsKinematic(true)
	rb.SetIsKinematic(false)

	if rb.rebuilds != before+2 {
		t.Errorf("expected exactly 2 rebuilds, got %d", rb.rebuilds-before)
	}
	if rb.Body() == firstBody {
		t.Error("expected a fresh body handle after rebuild")
	}
	if !vecNear(rb.Position(), p, 1e-9) {
		t.Errorf("rebuild lost position: expected %v, got %v", p, rb.Position())
	}
}

func TestRedundantSettersDoNotRebuild(t *testing.T) {
	sc := newTestScene()
	_, rb := addBody(sc, "crate", 1, mgl64.Vec3{})

	before := rb.rebuilds
	rb.SetMass(1)
	rb.SetIsKinematic(false)
	rb.SetUseGravity(true)
	rb.SetGravity(rb.Gravity())

	if rb.rebuilds != before {
		t.Errorf("redundant setters caused %d rebuilds", rb.rebuilds-before)
	}
}

func TestMaterialSettersSkipRebuild(t *testing.T) {
	sc := newTestScene()
	_, rb := addBody(sc, "crate", 1, mgl64.Vec3{})

	before := rb.rebuilds
	body := rb.Body()

	rb.SetFriction(0.9)
	rb.SetRollingFriction(0.2)
	rb.SetRestitution(0.5)

	if rb.rebuilds != before {
		t.Error("material setters must not rebuild")
	}
	if body.Friction() != 0.9 || body.RollingFriction() != 0.2 || body.Restitution() != 0.5 {
		t.Error("material values not applied to the live body")
	}
}

func TestPositionLockBlocksForce(t *testing.T) {
	sc := newTestScene()
	e, rb := addBody(sc, "crate", 1, mgl64.Vec3{})
	rb.SetUseGravity(false)
	sc.Start()

	start := e.Transform().Position()
	rb.SetPositionLock(mgl64.Vec3{1, 0, 0})
	rb.ApplyForce(mgl64.Vec3{10, 4, 0}, Force)

	for i := 0; i < 10; i++ {
		sc.Tick(0.01)
	}

	p := e.Transform().Position()
	if p.X() != start.X() {
		t.Errorf("locked X axis moved from %f to %f", start.X(), p.X())
	}
	if p.Y() <= start.Y() {
		t.Errorf("free Y axis did not move, still %f", p.Y())
	}
}

func TestZeroMassZeroesVelocityAndBlocksActivation(t *testing.T) {
	sc := newTestScene()
	_, rb := addBody(sc, "crate", 2, mgl64.Vec3{})

	rb.SetLinearVelocity(mgl64.Vec3{1, 2, 3}, true)
	rb.SetAngularVelocity(mgl64.Vec3{0.1, 0.2, 0.3}, true)

	rb.SetMass(0)

	if rb.LinearVelocity() != (mgl64.Vec3{}) {
		t.Errorf("static body kept linear velocity %v", rb.LinearVelocity())
	}
	if rb.AngularVelocity() != (mgl64.Vec3{}) {
		t.Errorf("static body kept angular velocity %v", rb.AngularVelocity())
	}

	rb.Activate()
	if rb.IsActivated() {
		t.Error("static body must not activate")
	}

	rb.SetMass(1)
	rb.Activate()
	if !rb.IsActivated() {
		t.Error("dynamic body should activate again")
	}
}

func TestForceActivatesBody(t *testing.T) {
	sc := newTestScene()
	_, rb := addBody(sc, "crate", 1, mgl64.Vec3{})

	rb.Body().ForceActivationState(solver.StateSleeping)
	rb.ApplyForce(mgl64.Vec3{0, 1, 0}, Impulse)

	if !rb.IsActivated() {
		t.Error("expected body awake after ApplyForce")
	}
}

func TestConstraintLifecycle(t *testing.T) {
	sc := newTestScene()
	_, rb := addBody(sc, "crate", 1, mgl64.Vec3{})

	c := &stubConstraint{id: scene.NextID()}
	rb.AddConstraint(c)

	// A rebuild notifies the constraint on both sides: release of the
	// old body, frame re-application on the new one.
	rb.SetMass(3)
	if c.released == 0 {
		t.Error("constraint not released before body teardown")
	}
	if c.applied == 0 {
		t.Error("constraint frames not re-applied after rebuild")
	}

	rb.Body().ForceActivationState(solver.StateSleeping)
	rb.RemoveConstraint(c)
	if len(rb.Constraints()) != 0 {
		t.Errorf("expected empty constraint set, got %d", len(rb.Constraints()))
	}
	if !rb.IsActivated() {
		t.Error("constraint removal must re-activate the body")
	}
}

func TestEditOverridesBodyWhenNotPlaying(t *testing.T) {
	sc := newTestScene()
	e, rb := addBody(sc, "crate", 1, mgl64.Vec3{})

	rb.SetLinearVelocity(mgl64.Vec3{5, 0, 0}, true)

	// Scene not playing: an authored transform edit wins over the body.
	edit := mgl64.Vec3{9, 9, 9}
	e.Transform().SetPosition(edit)
	rb.OnTick(1.0 / 60.0)

	if !vecNear(rb.Position(), edit, 1e-9) {
		t.Errorf("body not snapped to authored position, got %v", rb.Position())
	}
	if rb.LinearVelocity() != (mgl64.Vec3{}) {
		t.Errorf("snap must zero velocities, got %v", rb.LinearVelocity())
	}
}

func TestPlayingActiveBodyIgnoresTransformDrift(t *testing.T) {
	sc := newTestScene()
	e, rb := addBody(sc, "crate", 1, mgl64.Vec3{})
	sc.Start()
	rb.Activate()

	p := rb.Position()
	e.Transform().SetPosition(mgl64.Vec3{100, 0, 0})
	rb.OnTick(1.0 / 60.0)

	if !vecNear(rb.Position(), p, 1e-9) {
		t.Errorf("active body snapped during play mode: %v", rb.Position())
	}
}

func TestShapeRemovalPullsBodyFromWorld(t *testing.T) {
	sc := newTestScene()
	_, rb := addBody(sc, "crate", 1, mgl64.Vec3{})

	rb.SetShape(nil)
	if rb.InWorld() {
		t.Error("expected body out of the world with no shape")
	}
	if rb.Body() == nil {
		t.Error("handle should survive shape removal")
	}

	rb.SetShape(shape.NewSphere(1))
	if !rb.InWorld() {
		t.Error("expected body re-registered after shape returns")
	}
}

func TestGravityModeAppliedAtRegistration(t *testing.T) {
	sc := newTestScene()
	_, rb := addBody(sc, "crate", 1, mgl64.Vec3{})

	if rb.Body().Gravity() != sc.World().Gravity() {
		t.Errorf("expected world default gravity, got %v", rb.Body().Gravity())
	}

	custom := mgl64.Vec3{0, -1.62, 0}
	rb.SetGravity(custom)
	if rb.Body().Gravity() != custom {
		t.Errorf("expected gravity override %v, got %v", custom, rb.Body().Gravity())
	}

	rb.SetUseGravity(false)
	if rb.Body().Gravity() != (mgl64.Vec3{}) {
		t.Errorf("expected zero gravity when disabled, got %v", rb.Body().Gravity())
	}
}

func TestKinematicBodyFollowsTransform(t *testing.T) {
	sc := newTestScene()
	e, rb := addBody(sc, "crate", 1, mgl64.Vec3{})
	rb.SetIsKinematic(true)
	sc.Start()

	target := mgl64.Vec3{4, 4, 4}
	e.Transform().SetPosition(target)
	sc.World().Step(1.0 / 60.0)

	if !vecNear(rb.Body().WorldTransform().Origin, target, 1e-9) {
		t.Errorf("kinematic body at %v, expected %v", rb.Body().WorldTransform().Origin, target)
	}
}
