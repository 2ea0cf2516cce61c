package rigidbody

import (
	"encoding/binary"
	"io"
)

// The persisted record is an ordered list of little-endian fields. The
// order is a compatibility contract: mass, friction, rollingFriction,
// restitution, useGravity, gravity, isKinematic, positionLock,
// rotationLock, inWorld. The live body handle is never persisted.

// Serialize writes the persisted state record.
func (rb *RigidBody) Serialize(w io.Writer) error {
	fields := []any{
		rb.mass,
		rb.friction,
		rb.rollingFriction,
		rb.restitution,
		rb.useGravity,
		rb.gravity,
		rb.kinematic,
		rb.positionLock,
		rb.rotationLock,
		rb.inWorld,
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize restores the persisted fields, re-acquires the shape, and
// rebuilds the live body from them.
func (rb *RigidBody) Deserialize(r io.Reader) error {
	fields := []any{
		&rb.mass,
		&rb.friction,
		&rb.rollingFriction,
		&rb.restitution,
		&rb.useGravity,
		&rb.gravity,
		&rb.kinematic,
		&rb.positionLock,
		&rb.rotationLock,
		&rb.inWorld,
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return err
		}
	}

	rb.acquireShape()
	rb.rebuild()
	return nil
}
