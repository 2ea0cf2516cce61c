// Package shape provides collision shape descriptions and their local
// inertia. Shapes are pure geometry: the solver never inspects them
// beyond the diagonal inertia they report for a given mass.
package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape reports the diagonal local inertia tensor for a given mass.
// A mass of zero denotes a static body and yields zero inertia.
type Shape interface {
	Inertia(mass float64) mgl64.Vec3
}

// Box is an axis-aligned box described by half extents.
type Box struct {
	HalfExtents mgl64.Vec3
}

func NewBox(halfExtents mgl64.Vec3) Box {
	return Box{HalfExtents: halfExtents}
}

func (b Box) Inertia(mass float64) mgl64.Vec3 {
	if mass <= 0 {
		return mgl64.Vec3{}
	}
	// Solid cuboid: I = m/12 * (ly^2+lz^2, lx^2+lz^2, lx^2+ly^2)
	lx := 2 * b.HalfExtents[0]
	ly := 2 * b.HalfExtents[1]
	lz := 2 * b.HalfExtents[2]
	k := mass / 12.0
	return mgl64.Vec3{
		k * (ly*ly + lz*lz),
		k * (lx*lx + lz*lz),
		k * (lx*lx + ly*ly),
	}
}

// Sphere is a solid sphere.
type Sphere struct {
	Radius float64
}

func NewSphere(radius float64) Sphere {
	return Sphere{Radius: radius}
}

func (s Sphere) Inertia(mass float64) mgl64.Vec3 {
	if mass <= 0 {
		return mgl64.Vec3{}
	}
	i := 0.4 * mass * s.Radius * s.Radius
	return mgl64.Vec3{i, i, i}
}

// Capsule is a cylinder of the given height capped by hemispheres,
// aligned with the local Y axis. Height excludes the caps.
type Capsule struct {
	Radius float64
	Height float64
}

func NewCapsule(radius, height float64) Capsule {
	return Capsule{Radius: radius, Height: height}
}

func (c Capsule) Inertia(mass float64) mgl64.Vec3 {
	if mass <= 0 {
		return mgl64.Vec3{}
	}
	r, h := c.Radius, c.Height

	// Split the mass between the cylinder and the two hemispheres by
	// volume, then combine their tensors about the shared center.
	cylVol := math.Pi * r * r * h
	capVol := (4.0 / 3.0) * math.Pi * r * r * r
	total := cylVol + capVol
	mCyl := mass * cylVol / total
	mCap := mass * capVol / total

	iy := 0.5*mCyl*r*r + 0.4*mCap*r*r
	ix := mCyl*(h*h/12.0+r*r/4.0) +
		mCap*(0.4*r*r+h*h/4.0+0.375*h*r)
	return mgl64.Vec3{ix, iy, ix}
}
