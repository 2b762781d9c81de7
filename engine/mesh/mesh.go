// Package mesh binds a geometry and a material to a mutable world transform.
package mesh

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-stages/engine/geometry"
	"github.com/Carmen-Shannon/oxy-stages/engine/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type meshImpl struct {
	id      string
	name    string
	enabled atomic.Bool

	geo geometry.Geometry
	mat material.Material

	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3
}

// Mesh defines the interface for a drawable scene entity.
// Rotation is stored as XYZ Euler angles in radians and is never wrapped.
// A Mesh is mutated only from the host goroutine.
type Mesh interface {
	// ID returns the mesh's unique identifier.
	//
	// Returns:
	//   - string: a random UUID assigned at creation
	ID() string

	// Name returns the mesh's configured name, used for scene lookups.
	Name() string

	// Enabled returns whether this mesh is drawn.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether this mesh is drawn.
	SetEnabled(enabled bool)

	// Geometry returns the shape of the mesh.
	Geometry() geometry.Geometry

	// Material returns the surface description of the mesh.
	Material() material.Material

	// Position returns the world-space translation.
	Position() mgl32.Vec3

	// SetPosition replaces the world-space translation.
	SetPosition(pos mgl32.Vec3)

	// Rotation returns the Euler angles in radians.
	//
	// Returns:
	//   - mgl32.Vec3: rotation about x, y and z
	Rotation() mgl32.Vec3

	// SetRotation replaces the Euler angles.
	SetRotation(rot mgl32.Vec3)

	// Rotate adds the deltas to the current Euler angles without normalizing the result.
	//
	// Parameters:
	//   - dx, dy, dz: angle increments in radians
	Rotate(dx, dy, dz float32)

	// Scale returns the per-axis scale.
	Scale() mgl32.Vec3

	// SetScale replaces the per-axis scale.
	SetScale(scale mgl32.Vec3)

	// ModelMatrix composes translation, XYZ rotation and scale.
	//
	// Returns:
	//   - mgl32.Mat4: T * Rx * Ry * Rz * S
	ModelMatrix() mgl32.Mat4

	// NormalMatrix returns the inverse transpose of the model matrix's upper 3x3, used to
	// transform normals under non-uniform scale.
	//
	// Returns:
	//   - mgl32.Mat3: the normal matrix
	NormalMatrix() mgl32.Mat3
}

var _ Mesh = &meshImpl{}

// NewMesh creates a Mesh with identity transform.
// Panics if geo or mat is nil.
//
// Parameters:
//   - geo: the shape to draw
//   - mat: the material to draw it with
//   - options: functional options to configure the mesh
//
// Returns:
//   - Mesh: the new mesh
func NewMesh(geo geometry.Geometry, mat material.Material, options ...MeshBuilderOption) Mesh {
	if geo == nil {
		panic("mesh: geometry is required")
	}
	if mat == nil {
		panic("mesh: material is required")
	}

	m := &meshImpl{
		id:    uuid.NewString(),
		geo:   geo,
		mat:   mat,
		scale: mgl32.Vec3{1, 1, 1},
	}
	m.enabled.Store(true)

	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *meshImpl) ID() string {
	return m.id
}

func (m *meshImpl) Name() string {
	return m.name
}

func (m *meshImpl) Enabled() bool {
	return m.enabled.Load()
}

func (m *meshImpl) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

func (m *meshImpl) Geometry() geometry.Geometry {
	return m.geo
}

func (m *meshImpl) Material() material.Material {
	return m.mat
}

func (m *meshImpl) Position() mgl32.Vec3 {
	return m.position
}

func (m *meshImpl) SetPosition(pos mgl32.Vec3) {
	m.position = pos
}

func (m *meshImpl) Rotation() mgl32.Vec3 {
	return m.rotation
}

func (m *meshImpl) SetRotation(rot mgl32.Vec3) {
	m.rotation = rot
}

func (m *meshImpl) Rotate(dx, dy, dz float32) {
	m.rotation[0] += dx
	m.rotation[1] += dy
	m.rotation[2] += dz
}

func (m *meshImpl) Scale() mgl32.Vec3 {
	return m.scale
}

func (m *meshImpl) SetScale(scale mgl32.Vec3) {
	m.scale = scale
}

func (m *meshImpl) ModelMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(m.position[0], m.position[1], m.position[2])
	r := mgl32.HomogRotate3DX(m.rotation[0]).
		Mul4(mgl32.HomogRotate3DY(m.rotation[1])).
		Mul4(mgl32.HomogRotate3DZ(m.rotation[2]))
	s := mgl32.Scale3D(m.scale[0], m.scale[1], m.scale[2])
	return t.Mul4(r).Mul4(s)
}

func (m *meshImpl) NormalMatrix() mgl32.Mat3 {
	return m.ModelMatrix().Mat3().Inv().Transpose()
}
