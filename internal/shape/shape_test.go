package shape

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBoxInertia(t *testing.T) {
	b := NewBox(mgl64.Vec3{0.5, 1, 1.5}) // full extents 1 x 2 x 3
	inertia := b.Inertia(12)

	// I = m/12 * (ly^2+lz^2, lx^2+lz^2, lx^2+ly^2) with m/12 = 1
	want := mgl64.Vec3{4 + 9, 1 + 9, 1 + 4}
	for i := 0; i < 3; i++ {
		if math.Abs(inertia[i]-want[i]) > 1e-12 {
			t.Errorf("axis %d: expected %f, got %f", i, want[i], inertia[i])
		}
	}
}

func TestSphereInertia(t *testing.T) {
	s := NewSphere(2)
	inertia := s.Inertia(5)

	want := 0.4 * 5 * 4.0
	for i := 0; i < 3; i++ {
		if math.Abs(inertia[i]-want) > 1e-12 {
			t.Errorf("axis %d: expected %f, got %f", i, want, inertia[i])
		}
	}
}

func TestCapsuleInertiaSymmetry(t *testing.T) {
	c := NewCapsule(0.5, 2)
	inertia := c.Inertia(3)

	if inertia.X() != inertia.Z() {
		t.Errorf("capsule inertia must be symmetric about Y: %v", inertia)
	}
	if inertia.X() <= inertia.Y() {
		t.Errorf("long axis must dominate: %v", inertia)
	}
	if inertia.Y() <= 0 {
		t.Errorf("expected positive inertia, got %v", inertia)
	}
}

func TestZeroMassMeansZeroInertia(t *testing.T) {
	shapes := []Shape{
		NewBox(mgl64.Vec3{1, 1, 1}),
		NewSphere(1),
		NewCapsule(0.5, 1),
	}
	for _, s := range shapes {
		if s.Inertia(0) != (mgl64.Vec3{}) {
			t.Errorf("%T: static shape reported inertia %v", s, s.Inertia(0))
		}
	}
}

func TestColliderProvidesShapeAndCenter(t *testing.T) {
	box := NewBox(mgl64.Vec3{1, 1, 1})
	c := NewCollider(box, mgl64.Vec3{0, 0.5, 0})

	if c.Shape() != box {
		t.Error("collider did not return its shape")
	}
	if c.Center() != (mgl64.Vec3{0, 0.5, 0}) {
		t.Errorf("unexpected center %v", c.Center())
	}
}
