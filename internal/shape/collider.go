package shape

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/scene"
)

// Collider attaches a collision shape and a center-of-mass offset to an
// entity. The physics body queries it once, at shape acquisition.
type Collider struct {
	scene.NopComponent
	shape  Shape
	center mgl64.Vec3
}

func NewCollider(s Shape, center mgl64.Vec3) *Collider {
	return &Collider{shape: s, center: center}
}

func (c *Collider) Name() string { return "collider" }

// Shape returns the collision shape handle.
func (c *Collider) Shape() Shape { return c.shape }

// Center is the offset, in body-local space, from the entity's pivot to
// the physical center of mass.
func (c *Collider) Center() mgl64.Vec3 { return c.center }

func (c *Collider) SetShape(s Shape)       { c.shape = s }
func (c *Collider) SetCenter(v mgl64.Vec3) { c.center = v }
